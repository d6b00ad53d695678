package domain

import (
	"strings"
	"time"
)

// MaintenanceType classifies why a task exists.
type MaintenanceType string

const (
	MaintenanceTypePreventive MaintenanceType = "PREVENTIVE"
	MaintenanceTypeCorrective MaintenanceType = "CORRECTIVE"
	MaintenanceTypePredictive MaintenanceType = "PREDICTIVE"
	MaintenanceTypeGeneral    MaintenanceType = "GENERAL"
)

// Priority ranks how urgently a task needs attention.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Status is the stored lifecycle state of a task. ACTIVE tasks are the only
// ones the scheduler looks at.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusOverdue   Status = "OVERDUE"
	StatusPending   Status = "PENDING"
)

// AttentionState is derived from NextMaintenance at query time. It is never
// stored; the same row answers differently on different days.
type AttentionState string

const (
	AttentionOverdue   AttentionState = "OVERDUE"
	AttentionDueToday  AttentionState = "DUE_TODAY"
	AttentionScheduled AttentionState = "SCHEDULED"
)

// MaintenanceTask is one recurring maintenance item for a device component.
type MaintenanceTask struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	TaskName        string          `json:"task_name" gorm:"not null"`
	DeviceID        string          `json:"device_id" gorm:"index"`
	DeviceName      string          `json:"device_name"`
	ComponentName   string          `json:"component_name"`
	MaintenanceType MaintenanceType `json:"maintenance_type"`
	Description     string          `json:"description,omitempty" gorm:"type:text"`
	Frequency       string          `json:"frequency"`
	LastMaintenance *time.Time      `json:"last_maintenance,omitempty"`
	NextMaintenance time.Time       `json:"next_maintenance" gorm:"index;not null"`
	Priority        Priority        `json:"priority"`
	Status          Status          `json:"status" gorm:"index;default:ACTIVE"`
	AssignedTo      string          `json:"assigned_to" gorm:"index"`
	OrganizationID  string          `json:"organization_id" gorm:"index;not null"`

	// LastNotifiedAt is the dedupe claim for notification firing. Only the
	// caller that moves it forward may notify for that task.
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MaintenanceTask) TableName() string {
	return "device_maintenance"
}

// AttentionState classifies the task against the given day. Comparison is by
// calendar date, not instant.
func (t *MaintenanceTask) AttentionState(today time.Time) AttentionState {
	due := DateOnly(t.NextMaintenance)
	now := DateOnly(today)
	switch {
	case due.Before(now):
		return AttentionOverdue
	case due.Equal(now):
		return AttentionDueToday
	default:
		return AttentionScheduled
	}
}

// DateOnly truncates a time to its calendar date in the local zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextFromFrequency computes the next due date from a free-form frequency
// string. Unrecognized frequencies default to monthly.
func NextFromFrequency(frequency string, from time.Time) time.Time {
	from = DateOnly(from)
	f := strings.ToLower(strings.TrimSpace(frequency))
	switch {
	case strings.Contains(f, "daily"), strings.Contains(f, "day"):
		return from.AddDate(0, 0, 1)
	case strings.Contains(f, "weekly"), strings.Contains(f, "week"):
		return from.AddDate(0, 0, 7)
	case strings.Contains(f, "quarterly"), strings.Contains(f, "quarter"):
		return from.AddDate(0, 3, 0)
	case strings.Contains(f, "semi-annual"), strings.Contains(f, "semiannual"), strings.Contains(f, "6 month"):
		return from.AddDate(0, 6, 0)
	case strings.Contains(f, "annual"), strings.Contains(f, "yearly"), strings.Contains(f, "year"):
		return from.AddDate(1, 0, 0)
	case strings.Contains(f, "monthly"), strings.Contains(f, "month"):
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
