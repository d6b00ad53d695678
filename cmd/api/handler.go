package api

import (
	"log"

	authUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/usecase"
	chatDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/delivery"
	chatUsecasePkg "github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/usecase"
	maintDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/delivery"
	maintUsecasePkg "github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/usecase"
	notifDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/delivery"
	notifUsecasePkg "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/usecase"
	prefDelivery "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/delivery"
	prefUsecasePkg "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/usecase"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/config"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/fcm"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/live"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/rag"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/slack"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	sseManager   *sse.Manager
	config       *config.Config
	notifHandler *notifDelivery.NotificationHandler
	prefHandler  *prefDelivery.PreferenceHandler
	chatHandler  *chatDelivery.ChatHandler
	maintHandler *maintDelivery.MaintenanceHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, notifUc notifUsecasePkg.NotificationUsecase,
	prefUc prefUsecasePkg.PreferenceUsecase, chatUc chatUsecasePkg.ChatUsecase,
	maintUc maintUsecasePkg.MaintenanceUsecase, sseManager *sse.Manager, cfg *config.Config) *Handler {

	// Browser streams always get events; the other sinks are optional.
	notifUc.SetEventStream(sseManager)

	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("Warning: Failed to initialize FCM client: %v. Push notifications will not be available.", err)
		} else {
			notifUc.SetPushSender(fcmClient)
			log.Println("FCM client initialized successfully")
		}
	} else {
		log.Println("Warning: FIREBASE_CREDENTIALS not set. Push notifications will not be available.")
	}

	if cfg.SlackWebhookURL != "" {
		notifUc.SetSlackSender(slack.NewClient(cfg.SlackWebhookURL))
		log.Println("Slack webhook client initialized")
	}

	if cfg.RedisAddr != "" {
		notifUc.SetLivePublisher(live.NewPublisher(cfg.RedisAddr, cfg.RedisPassword))
		log.Println("Redis live publisher initialized")
	}

	if cfg.RAGBaseURL != "" {
		chatUc.SetRAGClient(rag.NewClient(cfg.RAGBaseURL, cfg.RAGTimeout))
		log.Println("RAG query client initialized")
	} else {
		log.Println("Warning: RAG_BASE_URL not set. Chat queries will not be available.")
	}

	// Maintenance alerts flow through the same preference-gated pipeline
	// as every other notification.
	maintUc.SetNotificationCreator(notifUc)

	return &Handler{
		authUsecase:  authUc,
		sseManager:   sseManager,
		config:       cfg,
		notifHandler: notifDelivery.NewNotificationHandler(notifUc),
		prefHandler:  prefDelivery.NewPreferenceHandler(prefUc),
		chatHandler:  chatDelivery.NewChatHandler(chatUc),
		maintHandler: maintDelivery.NewMaintenanceHandler(maintUc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.sseManager, h.notifHandler, h.prefHandler, h.chatHandler, h.maintHandler)

	return r.Run(addr)
}
