package repository

import (
	"errors"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormNotificationRepository implements NotificationRepository using GORM
type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM-based NotificationRepository
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	return r.db.Create(n).Error
}

func (r *gormNotificationRepository) FindByID(id, orgID, userID string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.Where("id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *gormNotificationRepository) FindByUser(orgID, userID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.Where("organization_id = ? AND user_id = ?", orgID, userID).
		Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *gormNotificationRepository) MarkRead(id, orgID, userID string) (bool, error) {
	result := r.db.Model(&domain.Notification{}).
		Where("id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormNotificationRepository) MarkAllRead(orgID, userID string) (int64, error) {
	result := r.db.Model(&domain.Notification{}).
		Where("organization_id = ? AND user_id = ? AND read = ?", orgID, userID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *gormNotificationRepository) CountUnread(orgID, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).
		Where("organization_id = ? AND user_id = ? AND read = ?", orgID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) Delete(id, orgID, userID string) (bool, error) {
	result := r.db.Where("id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID).
		Delete(&domain.Notification{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormNotificationRepository) DeleteAll(orgID, userID string) (int64, error) {
	result := r.db.Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&domain.Notification{})
	return result.RowsAffected, result.Error
}
