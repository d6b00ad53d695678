package domain

// Permission strings checked per endpoint before business logic runs.
const (
	PermNotificationRead  = "NOTIFICATION_READ"
	PermNotificationWrite = "NOTIFICATION_WRITE"
	PermMaintenanceRead   = "MAINTENANCE_READ"
	PermMaintenanceWrite  = "MAINTENANCE_WRITE"
	PermMaintenanceNotificationRead  = "MAINTENANCE_NOTIFICATION_READ"
	PermMaintenanceNotificationWrite = "MAINTENANCE_NOTIFICATION_WRITE"
	PermChatRead        = "CHAT_READ"
	PermChatWrite       = "CHAT_WRITE"
	PermPreferenceRead  = "PREFERENCE_READ"
	PermPreferenceWrite = "PREFERENCE_WRITE"
)

// Identity is the authenticated caller resolved from a bearer token.
// Token issuance happens in the external auth service; this backend only
// verifies and unpacks it.
type Identity struct {
	UserID         string   `json:"user_id"`
	OrganizationID string   `json:"organization_id"`
	Permissions    []string `json:"permissions"`
}

// HasPermission reports whether the identity carries the permission.
func (i *Identity) HasPermission(perm string) bool {
	for _, p := range i.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
