package domain

import "time"

// UserPreferences holds a user's notification category flags plus dashboard
// settings. One row per user, created lazily with everything enabled.
type UserPreferences struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null"`

	EmailNotifications bool `json:"email_notifications"`
	PushNotifications  bool `json:"push_notifications"`
	DeviceAlerts       bool `json:"device_alerts"`
	SecurityAlerts     bool `json:"security_alerts"`
	MaintenanceAlerts  bool `json:"maintenance_alerts"`
	SystemUpdates      bool `json:"system_updates"`
	WeeklyReports      bool `json:"weekly_reports"`
	PerformanceAlerts  bool `json:"performance_alerts"`
	DataBackupAlerts   bool `json:"data_backup_alerts"`
	UserActivityAlerts bool `json:"user_activity_alerts"`
	RuleTriggerAlerts  bool `json:"rule_trigger_alerts"`
	CriticalAlerts     bool `json:"critical_alerts"`

	DashboardShowRealTimeCharts bool `json:"dashboard_show_real_time_charts"`
	DashboardAutoRefresh        bool `json:"dashboard_auto_refresh"`
	DashboardRefreshInterval    int  `json:"dashboard_refresh_interval"`
	DashboardShowDeviceStatus   bool `json:"dashboard_show_device_status"`
	DashboardShowAlerts         bool `json:"dashboard_show_alerts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

// Defaults returns the all-enabled preference row used on first access.
func Defaults(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:                      userID,
		EmailNotifications:          true,
		PushNotifications:           true,
		DeviceAlerts:                true,
		SecurityAlerts:              true,
		MaintenanceAlerts:           true,
		SystemUpdates:               true,
		WeeklyReports:               true,
		PerformanceAlerts:           true,
		DataBackupAlerts:            true,
		UserActivityAlerts:          true,
		RuleTriggerAlerts:           true,
		CriticalAlerts:              true,
		DashboardShowRealTimeCharts: true,
		DashboardAutoRefresh:        true,
		DashboardRefreshInterval:    30,
		DashboardShowDeviceStatus:   true,
		DashboardShowAlerts:         true,
	}
}
