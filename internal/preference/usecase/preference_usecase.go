package usecase

import (
	"errors"
	"log"

	notifdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/repository"
)

// PreferenceUsecase manages user notification preferences and answers the
// allow/block question for notification delivery.
type PreferenceUsecase interface {
	// GetOrCreate returns the user's preferences, creating the all-enabled
	// default row on first access.
	GetOrCreate(userID string) (*domain.UserPreferences, error)

	// Save overwrites the user's preferences.
	Save(userID string, prefs *domain.UserPreferences) (*domain.UserPreferences, error)

	// Allow reports whether the user accepts notifications of the category.
	// Unknown categories are allowed (fail-open) so new alert types are not
	// silently dropped before a flag exists for them.
	Allow(userID string, category notifdomain.Category) bool
}

type preferenceUsecase struct {
	prefRepo repository.PreferenceRepository
}

func NewPreferenceUsecase(prefRepo repository.PreferenceRepository) PreferenceUsecase {
	return &preferenceUsecase{prefRepo: prefRepo}
}

func (u *preferenceUsecase) GetOrCreate(userID string) (*domain.UserPreferences, error) {
	prefs, err := u.prefRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	// Insert-if-absent; a concurrent first access may win the insert, so the
	// follow-up read is the source of truth either way.
	if err := u.prefRepo.Insert(domain.Defaults(userID)); err != nil {
		return nil, err
	}
	prefs, err = u.prefRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, errors.New("preference row missing after insert")
	}
	return prefs, nil
}

func (u *preferenceUsecase) Save(userID string, prefs *domain.UserPreferences) (*domain.UserPreferences, error) {
	existing, err := u.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	prefs.ID = existing.ID
	prefs.UserID = userID
	prefs.CreatedAt = existing.CreatedAt
	if err := u.prefRepo.Save(prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (u *preferenceUsecase) Allow(userID string, category notifdomain.Category) bool {
	prefs, err := u.GetOrCreate(userID)
	if err != nil {
		// A broken preference store must not swallow alerts.
		log.Printf("[PreferenceGate] Error loading preferences for user %s: %v (allowing)", userID, err)
		return true
	}

	switch category {
	case notifdomain.CategoryDeviceAlert:
		return prefs.DeviceAlerts
	case notifdomain.CategorySecurityAlert:
		return prefs.SecurityAlerts
	case notifdomain.CategoryMaintenanceAlert:
		return prefs.MaintenanceAlerts
	case notifdomain.CategorySystemUpdate:
		return prefs.SystemUpdates
	case notifdomain.CategoryWeeklyReport:
		return prefs.WeeklyReports
	case notifdomain.CategoryPerformanceAlert:
		return prefs.PerformanceAlerts
	case notifdomain.CategoryDataBackupAlert:
		return prefs.DataBackupAlerts
	case notifdomain.CategoryUserActivityAlert:
		return prefs.UserActivityAlerts
	case notifdomain.CategoryRuleTriggerAlert:
		return prefs.RuleTriggerAlerts
	case notifdomain.CategoryCriticalAlert:
		return prefs.CriticalAlerts
	default:
		// Fail-open for categories that predate a preference flag.
		return true
	}
}
