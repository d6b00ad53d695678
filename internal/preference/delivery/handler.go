package delivery

import (
	"net/http"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/usecase"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler handles user notification preference HTTP requests
type PreferenceHandler struct {
	prefUsecase usecase.PreferenceUsecase
}

func NewPreferenceHandler(prefUsecase usecase.PreferenceUsecase) *PreferenceHandler {
	return &PreferenceHandler{prefUsecase: prefUsecase}
}

// GetPreferences returns the caller's preferences, creating defaults on
// first access.
// GET /api/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	userID := c.GetString("userID")

	prefs, err := h.prefUsecase.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences overwrites the caller's preferences.
// PUT /api/preferences
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	userID := c.GetString("userID")

	var prefs domain.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.prefUsecase.Save(userID, &prefs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, saved)
}
