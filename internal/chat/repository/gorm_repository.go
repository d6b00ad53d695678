package repository

import (
	"errors"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormChatRepository implements ChatRepository using GORM
type gormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-based ChatRepository
func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(m *domain.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
	return r.db.Create(m).Error
}

func (r *gormChatRepository) FindByID(id string) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := r.db.Where("id = ? AND deleted = ?", id, false).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormChatRepository) paginate(query *gorm.DB, page, size int) ([]domain.ChatMessage, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []domain.ChatMessage
	err := query.Order("timestamp DESC").Limit(size).Offset(page * size).Find(&messages).Error
	return messages, total, err
}

func (r *gormChatRepository) FindByUser(userID string, page, size int) ([]domain.ChatMessage, int64, error) {
	query := r.db.Model(&domain.ChatMessage{}).Where("user_id = ? AND deleted = ?", userID, false)
	return r.paginate(query, page, size)
}

func (r *gormChatRepository) FindByDevice(deviceID string, page, size int) ([]domain.ChatMessage, int64, error) {
	query := r.db.Model(&domain.ChatMessage{}).Where("device_id = ? AND deleted = ?", deviceID, false)
	return r.paginate(query, page, size)
}

func (r *gormChatRepository) FindWithFeedback(page, size int) ([]domain.ChatMessage, int64, error) {
	query := r.db.Model(&domain.ChatMessage{}).
		Where("user_feedback IS NOT NULL AND user_feedback <> '' AND deleted = ?", false)
	return r.paginate(query, page, size)
}

func (r *gormChatRepository) FindByFeedback(feedback domain.Feedback, page, size int) ([]domain.ChatMessage, int64, error) {
	query := r.db.Model(&domain.ChatMessage{}).
		Where("user_feedback = ? AND deleted = ?", feedback, false)
	return r.paginate(query, page, size)
}

func (r *gormChatRepository) RecentByUser(userID string, limit int) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.Where("user_id = ? AND deleted = ?", userID, false).
		Order("timestamp DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *gormChatRepository) RecentByDevice(deviceID string, limit int) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.Where("device_id = ? AND deleted = ?", deviceID, false).
		Order("timestamp DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *gormChatRepository) FindBySession(sessionID string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.Where("session_id = ? AND deleted = ?", sessionID, false).
		Order("timestamp ASC").Find(&messages).Error
	return messages, err
}

func (r *gormChatRepository) SetFeedback(id string, feedback domain.Feedback, at time.Time) (bool, error) {
	result := r.db.Model(&domain.ChatMessage{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"user_feedback":      feedback,
			"feedback_timestamp": at,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Regenerate marks the parent and inserts the child atomically. If the
// child insert fails the parent flag rolls back with it.
func (r *gormChatRepository) Regenerate(parentID string, child *domain.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.ChatMessage{}).
			Where("id = ? AND deleted = ?", parentID, false).
			Updates(map[string]interface{}{
				"is_regenerated": true,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if child.ID == "" {
			child.ID = uuid.New().String()
		}
		if child.Timestamp.IsZero() {
			child.Timestamp = time.Now()
		}
		child.CreatedAt = time.Now()
		child.UpdatedAt = time.Now()
		return tx.Create(child).Error
	})
}

func (r *gormChatRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("user_id = ? AND deleted = ?", userID, false).Count(&count).Error
	return count, err
}

func (r *gormChatRepository) CountByUserAndFeedback(userID string, feedback domain.Feedback) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("user_id = ? AND user_feedback = ? AND deleted = ?", userID, feedback, false).
		Count(&count).Error
	return count, err
}

func (r *gormChatRepository) CountRegeneratedByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("user_id = ? AND is_regenerated = ? AND deleted = ?", userID, true, false).
		Count(&count).Error
	return count, err
}

func (r *gormChatRepository) CountByDevice(deviceID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("device_id = ? AND deleted = ?", deviceID, false).Count(&count).Error
	return count, err
}

func (r *gormChatRepository) CountByDeviceAndFeedback(deviceID string, feedback domain.Feedback) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("device_id = ? AND user_feedback = ? AND deleted = ?", deviceID, feedback, false).
		Count(&count).Error
	return count, err
}

func (r *gormChatRepository) CountRegeneratedByDevice(deviceID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("device_id = ? AND is_regenerated = ? AND deleted = ?", deviceID, true, false).
		Count(&count).Error
	return count, err
}
