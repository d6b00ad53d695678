package repository

import "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/domain"

// PreferenceRepository defines the interface for user preference data access
type PreferenceRepository interface {
	// FindByUserID returns the user's preference row, or nil when absent.
	FindByUserID(userID string) (*domain.UserPreferences, error)

	// Insert creates the row if no row exists for the user yet.
	// A concurrent insert for the same user must not fail the call.
	Insert(prefs *domain.UserPreferences) error

	// Save overwrites the user's preference row.
	Save(prefs *domain.UserPreferences) error
}
