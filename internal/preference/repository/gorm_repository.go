package repository

import (
	"errors"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormPreferenceRepository implements PreferenceRepository using GORM
type gormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GORM-based PreferenceRepository
func NewGormPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &gormPreferenceRepository{db: db}
}

func (r *gormPreferenceRepository) FindByUserID(userID string) (*domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	err := r.db.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prefs, nil
}

// Insert performs INSERT ... ON CONFLICT (user_id) DO NOTHING so the lazy
// first-access create is safe under concurrent callers.
func (r *gormPreferenceRepository) Insert(prefs *domain.UserPreferences) error {
	if prefs.ID == "" {
		prefs.ID = uuid.New().String()
	}
	prefs.CreatedAt = time.Now()
	prefs.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(prefs).Error
}

func (r *gormPreferenceRepository) Save(prefs *domain.UserPreferences) error {
	prefs.UpdatedAt = time.Now()
	return r.db.Save(prefs).Error
}
