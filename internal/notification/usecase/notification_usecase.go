package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/repository"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/fcm"
)

var (
	// ErrNotFound covers both a missing id and an id owned by another
	// tenant, so existence never leaks across organizations.
	ErrNotFound = errors.New("notification not found")

	ErrInvalidArgument = errors.New("invalid notification")
)

// PreferenceGate decides whether a user accepts a notification category.
type PreferenceGate interface {
	Allow(userID string, category domain.Category) bool
}

// PushSender delivers a push message to device tokens, returning the tokens
// that failed.
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, msg fcm.Message) ([]string, error)
}

// SlackSender posts a text message to a chat webhook.
type SlackSender interface {
	Post(ctx context.Context, text string) error
}

// LivePublisher pushes a payload onto a user's live feed.
type LivePublisher interface {
	Publish(ctx context.Context, userID string, payload interface{}) error
}

// EventStream delivers an event to the user's open browser streams.
type EventStream interface {
	SendToUser(userID, event string, data interface{})
}

// NotificationUsecase persists notifications and coordinates delivery:
// preference gate first, then the store, then fire-and-forget sinks.
type NotificationUsecase interface {
	Create(orgID, userID string, n *domain.Notification) (*domain.Notification, error)

	// CreateWithPreferenceCheck returns (nil, nil) when the user's
	// preferences block the category. Blocked is an outcome, not an error.
	CreateWithPreferenceCheck(userID string, n *domain.Notification) (*domain.Notification, error)

	ListForUser(orgID, userID string) ([]domain.Notification, error)
	Get(id, orgID, userID string) (*domain.Notification, error)
	MarkRead(id, orgID, userID string) error
	MarkAllRead(orgID, userID string) error
	UnreadCount(orgID, userID string) (int64, error)
	Delete(id, orgID, userID string) error
	DeleteAll(orgID, userID string) (int64, error)

	RegisterDeviceToken(userID, token, deviceInfo string) error
	UnregisterDeviceToken(token string) error
	UnregisterAllDeviceTokens(userID string) error

	SetPushSender(sender PushSender)
	SetSlackSender(sender SlackSender)
	SetLivePublisher(pub LivePublisher)
	SetEventStream(stream EventStream)
}

type notificationUsecase struct {
	notifRepo repository.NotificationRepository
	tokenRepo repository.DeviceTokenRepository
	gate      PreferenceGate

	// Optional sinks; any of them may be nil.
	pushSender    PushSender
	slackSender   SlackSender
	livePublisher LivePublisher
	eventStream   EventStream
}

func NewNotificationUsecase(notifRepo repository.NotificationRepository, tokenRepo repository.DeviceTokenRepository, gate PreferenceGate) NotificationUsecase {
	return &notificationUsecase{
		notifRepo: notifRepo,
		tokenRepo: tokenRepo,
		gate:      gate,
	}
}

func (u *notificationUsecase) SetPushSender(sender PushSender)    { u.pushSender = sender }
func (u *notificationUsecase) SetSlackSender(sender SlackSender)  { u.slackSender = sender }
func (u *notificationUsecase) SetLivePublisher(pub LivePublisher) { u.livePublisher = pub }
func (u *notificationUsecase) SetEventStream(stream EventStream)  { u.eventStream = stream }

func (u *notificationUsecase) Create(orgID, userID string, n *domain.Notification) (*domain.Notification, error) {
	if n.Title == "" || n.Message == "" {
		return nil, ErrInvalidArgument
	}

	// Caller identity wins over whatever the payload claims; cross-tenant
	// writes are impossible by construction.
	n.OrganizationID = orgID
	n.UserID = userID
	if err := u.notifRepo.Create(n); err != nil {
		return nil, err
	}

	u.dispatch(n)
	return n, nil
}

func (u *notificationUsecase) CreateWithPreferenceCheck(userID string, n *domain.Notification) (*domain.Notification, error) {
	if n.OrganizationID == "" {
		return nil, ErrInvalidArgument
	}
	if !u.gate.Allow(userID, n.Category) {
		log.Printf("[Notification] Blocked by preferences: user=%s category=%s", userID, n.Category)
		return nil, nil
	}
	return u.Create(n.OrganizationID, userID, n)
}

func (u *notificationUsecase) ListForUser(orgID, userID string) ([]domain.Notification, error) {
	return u.notifRepo.FindByUser(orgID, userID)
}

func (u *notificationUsecase) Get(id, orgID, userID string) (*domain.Notification, error) {
	n, err := u.notifRepo.FindByID(id, orgID, userID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

func (u *notificationUsecase) MarkRead(id, orgID, userID string) error {
	ok, err := u.notifRepo.MarkRead(id, orgID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(orgID, userID string) error {
	_, err := u.notifRepo.MarkAllRead(orgID, userID)
	return err
}

func (u *notificationUsecase) UnreadCount(orgID, userID string) (int64, error) {
	return u.notifRepo.CountUnread(orgID, userID)
}

func (u *notificationUsecase) Delete(id, orgID, userID string) error {
	ok, err := u.notifRepo.Delete(id, orgID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (u *notificationUsecase) DeleteAll(orgID, userID string) (int64, error) {
	return u.notifRepo.DeleteAll(orgID, userID)
}

func (u *notificationUsecase) RegisterDeviceToken(userID, token, deviceInfo string) error {
	return u.tokenRepo.Save(userID, token, deviceInfo)
}

func (u *notificationUsecase) UnregisterDeviceToken(token string) error {
	return u.tokenRepo.Delete(token)
}

func (u *notificationUsecase) UnregisterAllDeviceTokens(userID string) error {
	return u.tokenRepo.DeleteByUserID(userID)
}

// dispatch fans the persisted notification out to the configured sinks.
// Sink failures are logged and never reach the caller.
func (u *notificationUsecase) dispatch(n *domain.Notification) {
	if u.eventStream != nil {
		u.eventStream.SendToUser(n.UserID, "notification", n)
	}

	if u.livePublisher != nil {
		go func() {
			if err := u.livePublisher.Publish(context.Background(), n.UserID, n); err != nil {
				log.Printf("[Notification] Live publish failed for user %s: %v", n.UserID, err)
			}
		}()
	}

	if u.slackSender != nil {
		go func() {
			if err := u.slackSender.Post(context.Background(), n.Title+": "+n.Message); err != nil {
				log.Printf("[Notification] Slack post failed: %v", err)
			}
		}()
	}

	if u.pushSender != nil && u.tokenRepo != nil {
		go u.sendPush(n)
	}
}

func (u *notificationUsecase) sendPush(n *domain.Notification) {
	tokens, err := u.tokenRepo.TokensByUserID(n.UserID)
	if err != nil {
		log.Printf("[Notification] Error loading device tokens for user %s: %v", n.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	failedTokens, err := u.pushSender.SendToDevices(context.Background(), tokenStrings, fcm.Message{
		Title: n.Title,
		Body:  n.Message,
		Data: map[string]string{
			"type":            string(n.Category),
			"notification_id": n.ID,
			"device_id":       n.DeviceID,
		},
	})
	if err != nil {
		log.Printf("[Notification] Push send failed for user %s: %v", n.UserID, err)
		return
	}

	// Cleanup failed tokens
	for _, token := range failedTokens {
		if err := u.tokenRepo.Delete(token); err != nil {
			log.Printf("[Notification] Failed to delete dead token: %v", err)
		}
	}
}
