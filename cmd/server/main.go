package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/quillpress/backend/internal/jobs"
	"github.com/anonto42/quillpress/backend/internal/middleware"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/anonto42/quillpress/backend/internal/repositories/memory"
	"github.com/anonto42/quillpress/backend/internal/router"
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/anonto42/quillpress/backend/pkg/config"
	"github.com/anonto42/quillpress/backend/pkg/firebase"
	"github.com/anonto42/quillpress/backend/pkg/log"
	"github.com/anonto42/quillpress/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	storage := flag.String("storage", cfg.Storage, "storage backend: postgres or memory")
	flag.Parse()

	log.InitLogger(cfg.Env, cfg.LogLevel)
	logger := log.Log
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repositories.Store
	switch *storage {
	case config.StorageMemory:
		mem := memory.New()
		if err := seed(ctx, mem); err != nil {
			logger.WithError(err).Fatal("Failed to seed memory store")
		}
		store = mem
		logger.Info("Using in-memory storage")
	case config.StoragePostgres:
		db, err := config.InitDB(cfg)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize database")
		}
		defer db.CloseDB()
		if err := repositories.Migrate(db.Postgres); err != nil {
			logger.WithError(err).Fatal("Failed to migrate database")
		}
		store = repositories.NewPostgresStore(db.Postgres)
		logger.Info("PostgreSQL auto-migrations completed")
	default:
		logger.WithField("storage", *storage).Fatal("Unknown storage backend")
	}

	// Authentication
	var auth echo.MiddlewareFunc
	switch cfg.AuthProvider {
	case config.AuthFirebase:
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize Firebase")
		}
		auth = middleware.FirebaseAuthMiddleware(firebaseApp.AuthClient, store.Users())
		logger.Info("Firebase authentication enabled")
	default:
		if cfg.UsesDevJWTSecret() {
			logger.Warn("Using the development JWT secret; set JWT_SECRET before deploying")
		}
		auth = middleware.JWTAuthMiddleware(cfg.JWTSecret)
	}

	svc := router.NewServices(store, services.Options{Timeout: cfg.StoreTimeout, Logger: logger})

	clapLimiter := middleware.NewClapRateLimiter(cfg.ClapRatePerMinute, cfg.ClapRateBurst)
	go clapLimiter.Run(ctx, 10*time.Minute)

	cleanup := jobs.NewNotificationCleanupJob(svc.Notifications, cfg.NotificationRetention, cfg.NotificationSweepInterval, logger)
	cleanup.Start()
	defer cleanup.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, logger)
	router.SetupRoutes(e, svc, auth, clapLimiter.Middleware(), logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}
