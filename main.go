// File: agendei/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agendei/config"
	"agendei/cron"
	"agendei/handlers"
	"agendei/middleware"
	"agendei/routes"
	"agendei/services/booking"
	"agendei/services/notification"
	"agendei/upstream"
	"agendei/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// Upstream appointments API (system of record).
	scheduleAPI := upstream.NewHTTPScheduleAPI(
		config.AppConfig.UpstreamAPIURL,
		time.Duration(config.AppConfig.UpstreamTimeoutSec)*time.Second,
	)

	// Services.
	notificationService := notification.NewFCMNotificationService()
	reminderScheduler := cron.NewReminderScheduler()

	bookingService := &booking.DefaultBookingSessionService{
		API:          scheduleAPI,
		Cache:        utils.GetSessionCacheClient(),
		Notifier:     notificationService,
		Reminders:    reminderScheduler,
		SessionTTL:   time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute,
		LockTTL:      time.Duration(config.AppConfig.SubmitLockSeconds) * time.Second,
		ReminderLead: time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService)
	providerHandler := handlers.NewProviderHandler(scheduleAPI)

	routes.RegisterBookingRoutes(router, bookingHandler, providerHandler)

	// Reminder worker consumes the scheduled reminder queue.
	cron.InitReminderWorker(notificationService)

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
