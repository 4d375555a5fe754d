package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"providerhub/config"
	"providerhub/cron"
	"providerhub/database"
	adminRepo "providerhub/database/repository/admin"
	bookingRepo "providerhub/database/repository/booking"
	chatRepo "providerhub/database/repository/chat"
	eventRepo "providerhub/database/repository/events"
	"providerhub/handlers"
	"providerhub/middleware"
	"providerhub/routes"
	"providerhub/services/booking"
	"providerhub/services/chat"
	"providerhub/services/geocode"
	"providerhub/services/identity"
	"providerhub/services/notification"
	"providerhub/services/storage"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracer := utils.InitTracer("providerhub")

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor(rootCtx, utils.RedisClients(), database.MongoClient)

	// repositories.
	db := database.Database()
	admins := adminRepo.NewMongoAdminRepo(db, logger)
	bookings := bookingRepo.NewMongoBookingRepo(db, logger)
	events := eventRepo.NewMongoEventRepo(db, logger)

	// lifecycle event publishing.
	publisher, err := notification.NewPublisher(cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize event publisher", zap.Error(err))
	}
	var eventWorker *asynq.Server
	if cfg.EventsBackend == "asynq" {
		eventWorker = cron.InitEventWorker(events)
	}

	// chat.
	messageLog, err := newMessageLog(rootCtx, cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize chat store", zap.Error(err))
	}
	var notifier chat.Notifier = chat.NewLocalBroker()
	if cfg.ChatBackend != "memory" {
		notifier = chat.NewRedisNotifier(utils.GetChatClient(), utils.ChatNotifyPrefix)
	}
	chatManager := chat.NewManager(messageLog, notifier, cfg.ChatResyncInterval)

	// identity and profile.
	gate := identity.NewGate(admins, utils.GetAuthCacheClient(), cfg.JWTSecret, cfg.AuthCacheTTL)
	var photos storage.PhotoStore
	if cld, err := storage.NewCloudinaryPhotoStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err != nil {
		logger.Warn("main: photo uploads disabled", zap.Error(err))
	} else {
		photos = cld
	}
	profiles := identity.NewProfileService(admins, photos)

	// services.
	bookingStore := booking.NewDefaultBookingStore(bookings, publisher)
	geocoder := geocode.NewClient(cfg.OpenCageBaseURL, cfg.OpenCageAPIKey, cfg.GeocodeRatePerSec, utils.GetCacheClient(), cfg.GeocodeCacheTTL)

	handlerBundle := handlers.NewHandlerBundle(
		gate,
		cfg.IntakeToken,
		handlers.NewBookingHandler(bookingStore, events),
		handlers.NewChatHandler(chatManager, bookingStore),
		handlers.NewAdminHandler(gate, profiles),
		handlers.NewLocationHandler(geocoder),
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if eventWorker != nil {
		eventWorker.Shutdown()
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("main: publisher close failed", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		logger.Warn("main: tracer shutdown failed", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}

// newMessageLog picks the chat message store named by CHAT_BACKEND.
func newMessageLog(ctx context.Context, cfg config.Config) (chatRepo.MessageLog, error) {
	switch cfg.ChatBackend {
	case "memory":
		return chatRepo.NewMemoryLog(), nil
	case "firebase":
		client, err := utils.FirebaseDatabase(ctx)
		if err != nil {
			return nil, err
		}
		return chatRepo.NewFirebaseLog(client), nil
	default:
		return chatRepo.NewRedisStreamLog(utils.GetChatClient(), utils.ChatStreamPrefix), nil
	}
}
