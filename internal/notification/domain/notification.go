package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Category classifies a notification for preference filtering.
type Category string

const (
	CategoryDeviceAlert       Category = "DEVICE_ALERT"
	CategorySecurityAlert     Category = "SECURITY_ALERT"
	CategoryMaintenanceAlert  Category = "MAINTENANCE_ALERT"
	CategorySystemUpdate      Category = "SYSTEM_UPDATE"
	CategoryWeeklyReport      Category = "WEEKLY_REPORT"
	CategoryPerformanceAlert  Category = "PERFORMANCE_ALERT"
	CategoryDataBackupAlert   Category = "DATA_BACKUP_ALERT"
	CategoryUserActivityAlert Category = "USER_ACTIVITY_ALERT"
	CategoryRuleTriggerAlert  Category = "RULE_TRIGGER_ALERT"
	CategoryCriticalAlert     Category = "CRITICAL_ALERT"
)

// Metadata is a free-form string map stored as a JSON column.
type Metadata map[string]string

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	return json.Unmarshal(data, m)
}

// Notification is a persisted alert scoped to exactly one organization and
// user. Rows are only ever read or written with both scopes applied.
type Notification struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"index:idx_notif_org_user;not null"`
	UserID         string    `json:"user_id" gorm:"index:idx_notif_org_user;not null"`
	DeviceID       string    `json:"device_id,omitempty"`
	RuleID         string    `json:"rule_id,omitempty"`
	Title          string    `json:"title" gorm:"not null"`
	Message        string    `json:"message" gorm:"type:text;not null"`
	Category       Category  `json:"category" gorm:"not null"`
	Read           bool      `json:"read" gorm:"default:false"`
	Metadata       Metadata  `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// DeviceToken is a push-notification device registration for a user.
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}
