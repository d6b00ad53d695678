package repository

import (
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/domain"
)

// MaintenanceRepository defines the interface for maintenance task data access
type MaintenanceRepository interface {
	// Create inserts a new task
	Create(t *domain.MaintenanceTask) error

	// FindByID returns one task, nil when absent
	FindByID(id string) (*domain.MaintenanceTask, error)

	// FindActive returns every ACTIVE task
	FindActive() ([]domain.MaintenanceTask, error)

	// FindDueOnOrBefore returns ACTIVE tasks with a due date on or before
	// the given day, soonest due first
	FindDueOnOrBefore(day time.Time) ([]domain.MaintenanceTask, error)

	// Save persists the task's current field values
	Save(t *domain.MaintenanceTask) error

	// ClaimNotification advances last_notified_at to now only if it still
	// matches the observed value, returning whether this caller won the
	// claim. Concurrent callers racing on the same task see at most one
	// true.
	ClaimNotification(id string, observed *time.Time, now time.Time) (bool, error)

	// CountByStatus returns the number of tasks in the given status
	CountByStatus(status domain.Status) (int64, error)
}
