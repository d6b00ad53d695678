package repository

import "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"

// NotificationRepository defines the interface for notification data access.
// Every operation is scoped to organization+user; ids outside that scope
// behave as absent.
type NotificationRepository interface {
	// Create inserts a new notification
	Create(n *domain.Notification) error

	// FindByID finds a notification owned by the org+user, nil when absent
	FindByID(id, orgID, userID string) (*domain.Notification, error)

	// FindByUser returns the user's notifications, newest first
	FindByUser(orgID, userID string) ([]domain.Notification, error)

	// MarkRead flips the read flag; false when the id is absent or foreign
	MarkRead(id, orgID, userID string) (bool, error)

	// MarkAllRead marks every unread notification read in one statement
	MarkAllRead(orgID, userID string) (int64, error)

	// CountUnread returns the number of unread notifications
	CountUnread(orgID, userID string) (int64, error)

	// Delete removes one notification; false when absent or foreign
	Delete(id, orgID, userID string) (bool, error)

	// DeleteAll removes every notification of the user in one statement
	DeleteAll(orgID, userID string) (int64, error)
}

// DeviceTokenRepository defines the interface for push token registrations
type DeviceTokenRepository interface {
	Save(userID, token, deviceInfo string) error
	TokensByUserID(userID string) ([]domain.DeviceToken, error)
	Delete(token string) error
	DeleteByUserID(userID string) error
}
