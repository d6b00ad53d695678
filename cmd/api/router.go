package api

import (
	"net/http"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/delivery"
	authdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/domain"
	authUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/usecase"
	chatDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/delivery"
	maintDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/delivery"
	notifDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/delivery"
	prefDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/delivery"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, sseManager *sse.Manager,
	notifHandler *notifDelivery.NotificationHandler, prefHandler *prefDelivery.PreferenceHandler,
	chatHandler *chatDelivery.ChatHandler, maintHandler *maintDelivery.MaintenanceHandler) {

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", delivery.AuthMiddleware(authUc), func(c *gin.Context) {
			userID := c.GetString("userID")
			sseManager.ServeHTTP(c, userID)
		})

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(authUc))
		{
			notifications.GET("", delivery.RequirePermission(authdomain.PermNotificationRead), notifHandler.GetNotifications)
			notifications.POST("", delivery.RequirePermission(authdomain.PermNotificationWrite), notifHandler.CreateNotification)
			notifications.GET("/unread-count", delivery.RequirePermission(authdomain.PermNotificationRead), notifHandler.GetUnreadCount)
			notifications.PATCH("/read-all", delivery.RequirePermission(authdomain.PermNotificationWrite), notifHandler.MarkAllAsRead)
			notifications.GET("/:id/details", delivery.RequirePermission(authdomain.PermNotificationRead), notifHandler.GetNotificationDetails)
			notifications.PATCH("/:id/read", delivery.RequirePermission(authdomain.PermNotificationWrite), notifHandler.MarkAsRead)
			notifications.DELETE("/:id", delivery.RequirePermission(authdomain.PermNotificationWrite), notifHandler.DeleteNotification)
			notifications.DELETE("", delivery.RequirePermission(authdomain.PermNotificationWrite), notifHandler.DeleteAllNotifications)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(authUc))
		{
			fcm.POST("/register", notifHandler.RegisterDeviceToken)
			fcm.DELETE("/:token", notifHandler.UnregisterDeviceToken)
			fcm.DELETE("", notifHandler.UnregisterAllDeviceTokens)
		}

		// Preference routes (protected)
		preferences := api.Group("/preferences")
		preferences.Use(delivery.AuthMiddleware(authUc))
		{
			preferences.GET("", delivery.RequirePermission(authdomain.PermPreferenceRead), prefHandler.GetPreferences)
			preferences.PUT("", delivery.RequirePermission(authdomain.PermPreferenceWrite), prefHandler.UpdatePreferences)
		}

		// Chat history routes (protected)
		chatHistory := api.Group("/chat-history")
		chatHistory.Use(delivery.AuthMiddleware(authUc))
		{
			chatHistory.POST("/messages", delivery.RequirePermission(authdomain.PermChatWrite), chatHandler.SaveMessage)
			chatHistory.POST("/feedback", delivery.RequirePermission(authdomain.PermChatWrite), chatHandler.SubmitFeedback)
			chatHistory.GET("/user/:userId", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetUserHistory)
			chatHistory.GET("/user/:userId/recent", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetRecentUserHistory)
			chatHistory.GET("/user/:userId/feedback-stats", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetUserFeedbackStats)
			chatHistory.GET("/device/:deviceId", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetDeviceHistory)
			chatHistory.GET("/device/:deviceId/recent", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetRecentDeviceHistory)
			chatHistory.GET("/device/:deviceId/feedback-stats", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetDeviceFeedbackStats)
			chatHistory.GET("/session/:sessionId", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetSessionHistory)
			chatHistory.GET("/feedback", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetMessagesWithFeedback)
			chatHistory.GET("/feedback/:feedbackType", delivery.RequirePermission(authdomain.PermChatRead), chatHandler.GetMessagesByFeedbackType)
		}

		// Chat query route (protected)
		chat := api.Group("/chat")
		chat.Use(delivery.AuthMiddleware(authUc))
		{
			chat.POST("/query", delivery.RequirePermission(authdomain.PermChatWrite), chatHandler.Query)
		}

		// Maintenance scheduler routes (protected)
		scheduler := api.Group("/maintenance-scheduler")
		scheduler.Use(delivery.AuthMiddleware(authUc))
		{
			scheduler.POST("/tasks", delivery.RequirePermission(authdomain.PermMaintenanceWrite), maintHandler.CreateTask)
			scheduler.GET("/tasks", delivery.RequirePermission(authdomain.PermMaintenanceRead), maintHandler.GetTasks)
			scheduler.GET("/tasks/:id", delivery.RequirePermission(authdomain.PermMaintenanceRead), maintHandler.GetTask)
			scheduler.GET("/attention-needed", delivery.RequirePermission(authdomain.PermMaintenanceRead), maintHandler.GetAttentionNeeded)
			scheduler.POST("/update", delivery.RequirePermission(authdomain.PermMaintenanceWrite), maintHandler.ManualUpdate)
			scheduler.GET("/status", delivery.RequirePermission(authdomain.PermMaintenanceRead), maintHandler.GetStatus)
		}

		// Maintenance notification routes (protected)
		maintNotif := api.Group("/maintenance-notifications")
		maintNotif.Use(delivery.AuthMiddleware(authUc))
		{
			maintNotif.POST("/trigger", delivery.RequirePermission(authdomain.PermMaintenanceNotificationWrite), maintHandler.TriggerNotifications)
			maintNotif.GET("/status", delivery.RequirePermission(authdomain.PermMaintenanceNotificationRead), maintHandler.GetNotificationStatus)
			maintNotif.GET("/debug", delivery.RequirePermission(authdomain.PermMaintenanceNotificationRead), maintHandler.Debug)
		}
	}
}
