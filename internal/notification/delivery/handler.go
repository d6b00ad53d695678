package delivery

import (
	"errors"
	"net/http"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notifUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notifUsecase: notifUsecase}
}

// CreateNotificationRequest represents the request body for creating a notification
type CreateNotificationRequest struct {
	Title    string          `json:"title" binding:"required"`
	Message  string          `json:"message" binding:"required"`
	Category domain.Category `json:"category" binding:"required"`
	DeviceID string          `json:"device_id"`
	RuleID   string          `json:"rule_id"`
	Metadata domain.Metadata `json:"metadata"`
}

// GetNotifications returns the caller's notifications, newest first.
// GET /api/notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")

	notifications, err := h.notifUsecase.ListForUser(orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// CreateNotification creates a notification for the caller after the
// preference gate. A gate block returns 204 with no body.
// POST /api/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n := &domain.Notification{
		OrganizationID: orgID,
		Title:          req.Title,
		Message:        req.Message,
		Category:       req.Category,
		DeviceID:       req.DeviceID,
		RuleID:         req.RuleID,
		Metadata:       req.Metadata,
	}

	created, err := h.notifUsecase.CreateWithPreferenceCheck(userID, n)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	if created == nil {
		// Blocked by the user's preferences: an outcome, not an error.
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetNotificationDetails returns one notification owned by the caller.
// GET /api/notifications/:id/details
func (h *NotificationHandler) GetNotificationDetails(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")
	id := c.Param("id")

	n, err := h.notifUsecase.Get(id, orgID, userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notification"})
		return
	}

	c.JSON(http.StatusOK, n)
}

// MarkAsRead marks one notification read.
// PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.notifUsecase.MarkRead(id, orgID, userID); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the caller read.
// PATCH /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")

	if err := h.notifUsecase.MarkAllRead(orgID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// GetUnreadCount returns the caller's unread notification count.
// GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")

	count, err := h.notifUsecase.UnreadCount(orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// DeleteNotification deletes one notification owned by the caller.
// DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.notifUsecase.Delete(id, orgID, userID); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// DeleteAllNotifications deletes every notification of the caller.
// DELETE /api/notifications
func (h *NotificationHandler) DeleteAllNotifications(c *gin.Context) {
	orgID := c.GetString("orgID")
	userID := c.GetString("userID")

	deleted, err := h.notifUsecase.DeleteAll(orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications deleted",
		"deleted": deleted,
	})
}

// RegisterDeviceTokenRequest registers a push device token for the caller
type RegisterDeviceTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// RegisterDeviceToken registers a push device token.
// POST /api/fcm/register
func (h *NotificationHandler) RegisterDeviceToken(c *gin.Context) {
	userID := c.GetString("userID")

	var req RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notifUsecase.RegisterDeviceToken(userID, req.Token, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device token registered"})
}

// UnregisterDeviceToken removes a push device token.
// DELETE /api/fcm/:token
func (h *NotificationHandler) UnregisterDeviceToken(c *gin.Context) {
	token := c.Param("token")

	if err := h.notifUsecase.UnregisterDeviceToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unregister device token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device token unregistered"})
}

// UnregisterAllDeviceTokens removes every push device token of the caller,
// for logout-everywhere.
// DELETE /api/fcm
func (h *NotificationHandler) UnregisterAllDeviceTokens(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.notifUsecase.UnregisterAllDeviceTokens(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unregister device tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device tokens unregistered"})
}
