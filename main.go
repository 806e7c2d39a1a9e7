package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotline/config"
	"slotline/cron"
	"slotline/database"
	providerRepo "slotline/database/repository/provider"
	scheduleRepo "slotline/database/repository/schedule"
	userRepoPkg "slotline/database/repository/user"
	"slotline/handlers"
	"slotline/middleware"
	"slotline/routes"
	"slotline/services/notification"
	"slotline/services/scheduling"
	"slotline/services/voice"
	"slotline/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	provRepo := providerRepo.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	schedRepo := scheduleRepo.NewMongoScheduleRepo()

	// services.
	notificationService := notification.NewEmailNotificationService()
	reminderScheduler := cron.NewReminderScheduler()

	engine := &scheduling.DefaultBookingEngine{
		Providers:           provRepo,
		Users:               userRepo,
		Schedule:            schedRepo,
		Notifier:            notificationService,
		Reminders:           reminderScheduler,
		SlotDurationMinutes: config.AppConfig.SlotDurationMinutes,
	}

	sessionStore := voice.NewRedisSessionStore(utils.GetSessionCacheClient(), 30*time.Minute)
	commandService := &voice.DefaultCommandService{
		Engine:   engine,
		Sessions: sessionStore,
	}

	bookingHandler := handlers.NewBookingHandler(engine, logger)
	providerHandler := handlers.NewProviderHandler(provRepo, engine, logger)
	voiceHandler := handlers.NewVoiceHandler(commandService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Provider endpoints.
		ListProvidersHandler:  providerHandler.ListProviders,
		GetProviderHandler:    providerHandler.GetProvider,
		CreateProviderHandler: providerHandler.CreateProvider,
		PublishWindowsHandler: providerHandler.PublishWindows,
		ListWindowsHandler:    providerHandler.ListWindows,

		// Booking endpoints.
		SuggestSlotsHandler:     bookingHandler.SuggestSlots,
		BookAppointmentHandler:  bookingHandler.BookAppointment,
		CancelBookingHandler:    bookingHandler.CancelBooking,
		BookingStatusHandler:    bookingHandler.BookingStatus,
		ListSlotsHandler:        bookingHandler.ListSlots,
		ResolveConflictsHandler: bookingHandler.ResolveConflicts,
		BookingSummaryHandler:   bookingHandler.BookingSummary,

		// Voice endpoints.
		VoiceCommandHandler:    voiceHandler.Command,
		VoiceTranscribeHandler: voiceHandler.Transcribe,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder worker.
	go cron.InitReminderWorker(notificationService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
