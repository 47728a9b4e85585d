package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventdesk/api/routes"
	"eventdesk/internal/activity"
	"eventdesk/internal/shared/config"
	"eventdesk/internal/shared/database"
	"eventdesk/internal/shared/middleware"
	"eventdesk/pkg/logger"
	"eventdesk/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	envLoaded := godotenv.Load() == nil

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.NewWithOptions(logger.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		JSON:  cfg.IsProduction(),
	})
	logger.SetDefault(appLogger)

	if envLoaded {
		appLogger.Info("Development environment: loaded .env file")
	} else {
		appLogger.Info("No .env file found, using system environment variables")
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close connections", slog.Any("error", err))
		}
	}()

	publisher := newPublisher(cfg, appLogger)
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("failed to close activity publisher", slog.Any("error", err))
		}
	}()

	var rateLimiter *ratelimit.RateLimiter
	switch {
	case !cfg.RateLimit.Enabled:
		appLogger.Info("Rate limiting disabled")
	case db.Redis == nil:
		appLogger.Warn("Rate limiting needs Redis, continuing without it")
	default:
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
			Enabled:          cfg.RateLimit.Enabled,
			WindowDuration:   cfg.RateLimit.WindowDuration,
			DefaultRequests:  cfg.RateLimit.DefaultRequests,
			BrowseRequests:   cfg.RateLimit.BrowseRequests,
			AuthRequests:     cfg.RateLimit.AuthRequests,
			MutationRequests: cfg.RateLimit.MutationRequests,
			HealthRequests:   cfg.RateLimit.HealthRequests,
			WhitelistedIPs:   cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	}

	router, err := setupRouter(cfg, db, publisher, rateLimiter)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("api", cfg.API.BaseURL),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
			slog.Bool("activity_stream", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	appLogger.Info("Server exited gracefully")
	return nil
}

func newPublisher(cfg *config.Config, appLogger *logger.Logger) activity.Publisher {
	if !cfg.Kafka.Enabled {
		return activity.NopPublisher{}
	}

	pcfg := activity.DefaultKafkaProducerConfig()
	pcfg.Brokers = cfg.Kafka.Brokers
	pcfg.Topic = cfg.Kafka.ActivityTopic
	pcfg.ClientID = cfg.Kafka.ClientID

	publisher, err := activity.NewKafkaPublisher(pcfg)
	if err != nil {
		appLogger.Error("Failed to initialize activity publisher, continuing without it", slog.Any("error", err))
		return activity.NopPublisher{}
	}
	appLogger.Info("Activity publisher initialized", slog.String("topic", pcfg.Topic))
	return publisher
}

func setupRouter(cfg *config.Config, db *database.DB, publisher activity.Publisher, rateLimiter *ratelimit.RateLimiter) (*gin.Engine, error) {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), gin.Recovery())

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:" + cfg.Port}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	if err := routes.NewRouter(cfg, db, publisher).SetupRoutes(engine); err != nil {
		return nil, err
	}
	return engine, nil
}
