package repository

import (
	"errors"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormMaintenanceRepository implements MaintenanceRepository using GORM
type gormMaintenanceRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRepository creates a new GORM-based MaintenanceRepository
func NewGormMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &gormMaintenanceRepository{db: db}
}

func (r *gormMaintenanceRepository) Create(t *domain.MaintenanceTask) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.StatusActive
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return r.db.Create(t).Error
}

func (r *gormMaintenanceRepository) FindByID(id string) (*domain.MaintenanceTask, error) {
	var t domain.MaintenanceTask
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *gormMaintenanceRepository) FindActive() ([]domain.MaintenanceTask, error) {
	var tasks []domain.MaintenanceTask
	err := r.db.Where("status = ?", domain.StatusActive).
		Order("next_maintenance ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormMaintenanceRepository) FindDueOnOrBefore(day time.Time) ([]domain.MaintenanceTask, error) {
	cutoff := domain.DateOnly(day).AddDate(0, 0, 1)
	var tasks []domain.MaintenanceTask
	err := r.db.Where("status = ? AND next_maintenance < ?", domain.StatusActive, cutoff).
		Order("next_maintenance ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormMaintenanceRepository) Save(t *domain.MaintenanceTask) error {
	t.UpdatedAt = time.Now()
	return r.db.Save(t).Error
}

// ClaimNotification is a compare-and-set on last_notified_at. The WHERE
// clause pins the previously observed value so only one concurrent caller
// gets RowsAffected > 0.
func (r *gormMaintenanceRepository) ClaimNotification(id string, observed *time.Time, now time.Time) (bool, error) {
	query := r.db.Model(&domain.MaintenanceTask{}).Where("id = ?", id)
	if observed == nil {
		query = query.Where("last_notified_at IS NULL")
	} else {
		query = query.Where("last_notified_at = ?", *observed)
	}

	result := query.Updates(map[string]interface{}{
		"last_notified_at": now,
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormMaintenanceRepository) CountByStatus(status domain.Status) (int64, error) {
	var count int64
	err := r.db.Model(&domain.MaintenanceTask{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}
