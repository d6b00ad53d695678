package main

import (
	"log"
	"os"

	api "github.com/vivekshiftai/shiftAIOT-sub009/cmd/api"
	authUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/usecase"
	chatdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/domain"
	chatRepo "github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/repository"
	chatUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/usecase"
	maintdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/domain"
	maintRepo "github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/repository"
	maintUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/usecase"
	notifdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"
	notifRepo "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/repository"
	notifUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/usecase"
	prefdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/domain"
	prefRepo "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/repository"
	prefUsecase "github.com/vivekshiftai/shiftAIOT-sub009/internal/preference/usecase"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/config"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/database"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&notifdomain.Notification{},
		&notifdomain.DeviceToken{},
		&prefdomain.UserPreferences{},
		&chatdomain.ChatMessage{},
		&maintdomain.MaintenanceTask{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	notificationRepo := notifRepo.NewGormNotificationRepository(db)
	deviceTokenRepo := notifRepo.NewGormDeviceTokenRepository(db)
	preferenceRepo := prefRepo.NewGormPreferenceRepository(db)
	chatRepository := chatRepo.NewGormChatRepository(db)
	maintenanceRepo := maintRepo.NewGormMaintenanceRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(cfg.JWTSecret)
	preferenceUsecaseInstance := prefUsecase.NewPreferenceUsecase(preferenceRepo)
	notificationUsecaseInstance := notifUsecase.NewNotificationUsecase(notificationRepo, deviceTokenRepo, preferenceUsecaseInstance)
	chatUsecaseInstance := chatUsecase.NewChatUsecase(chatRepository)
	maintenanceUsecaseInstance := maintUsecase.NewMaintenanceUsecase(maintenanceRepo)

	// Initialize HTTP handler (wires FCM, Slack, Redis and RAG sinks)
	handler := api.NewHandler(authUsecaseInstance, notificationUsecaseInstance,
		preferenceUsecaseInstance, chatUsecaseInstance, maintenanceUsecaseInstance, sseManager, cfg)

	// Start daily maintenance scheduler
	scheduler := maintUsecase.NewScheduler(maintenanceUsecaseInstance, cfg.SchedulerHour)
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
