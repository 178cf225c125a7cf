package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rbse-library/library-service/internal/auth"
	"github.com/rbse-library/library-service/internal/config"
	"github.com/rbse-library/library-service/internal/events"
	"github.com/rbse-library/library-service/internal/handlers"
	"github.com/rbse-library/library-service/internal/mailer"
	"github.com/rbse-library/library-service/internal/repositories/postgres"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
	"github.com/rbse-library/library-service/internal/validator"
	"github.com/rbse-library/library-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	// Initialize validator
	validator := validator.New()

	// Initialize auth primitives
	codec := auth.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL, cfg.JWT.RefreshTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// Initialize the event bus. Kafka carries domain events when brokers are
	// configured; email events always stay on the in-process bus so the mail
	// worker sees them either way.
	bus := events.NewGoChannelBus(slogLogger)
	publisher := events.NewWatermillPublisher(bus)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
		publisher = events.NewRoutedPublisher(publisher, kafkaPublisher)
	}

	// Start the email worker. It reads from the in-process bus; delivery
	// failures are logged and never surface to request handlers.
	mailCtx, stopMailer := context.WithCancel(context.Background())
	mailWorker := mailer.NewWorker(bus, mailer.NewSMTPSender(cfg.SMTP), slogLogger, cfg.SchoolName, cfg.FrontendURL)
	go func() {
		if err := mailWorker.Run(mailCtx); err != nil {
			log.Printf("Mail worker stopped: %v", err)
		}
	}()

	// Initialize services
	serviceManager := services.NewDefaultServiceManager(db, repo, slogLogger, validator, services.Dependencies{
		Codec:       codec,
		Hasher:      hasher,
		Publisher:   publisher,
		FrontendURL: cfg.FrontendURL,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	accessGate := handlers.NewAccessGate(codec, repo.User())
	rateLimiter := handlers.NewRateLimiter(redisClient)
	handlerManager := handlers.NewHandlerManager(serviceManager, logger, accessGate, rateLimiter, cfg.RateLimit)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger, cfg.CORSOrigin)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop the mail worker before the bus closes underneath it
	stopMailer()

	// Shutdown services
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Shutdown repositories
	if err := repoManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown repositories: %v", err)
	}

	logger.Info("Server exited")
}
