package repository

import (
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormDeviceTokenRepository implements DeviceTokenRepository using GORM
type gormDeviceTokenRepository struct {
	db *gorm.DB
}

// NewGormDeviceTokenRepository creates a new GORM-based DeviceTokenRepository
func NewGormDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &gormDeviceTokenRepository{db: db}
}

// Save saves or updates a device token (atomic upsert keyed by token)
func (r *gormDeviceTokenRepository) Save(userID, token, deviceInfo string) error {
	deviceToken := &domain.DeviceToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
	}).Create(deviceToken).Error
}

func (r *gormDeviceTokenRepository) TokensByUserID(userID string) ([]domain.DeviceToken, error) {
	var tokens []domain.DeviceToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *gormDeviceTokenRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&domain.DeviceToken{}).Error
}

func (r *gormDeviceTokenRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.DeviceToken{}).Error
}
