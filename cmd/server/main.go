package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/anonto42/review-site/backend/internal/router"
	"github.com/anonto42/review-site/backend/internal/ws"
	"github.com/anonto42/review-site/backend/pkg/config"
	"github.com/anonto42/review-site/backend/pkg/firebase"
	"github.com/anonto42/review-site/backend/pkg/logger"
	"github.com/anonto42/review-site/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()
	deps := router.Deps{
		DB:        db.SQL,
		Hub:       ws.NewHub(log),
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
	}

	if db.Mongo != nil {
		messages := repositories.NewMongoMessageRepository(db.Mongo.Database(cfg.Mongo.Database))
		if err := messages.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to create message indexes: %v", err)
		}
		deps.Messages = messages
	}

	// Firebase is optional: without credentials only local accounts work and no push is sent
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		deps.Firebase = app.AuthClient
		deps.Pusher = firebase.NewPusher(app.Messaging)
		log.Info("Firebase login and push notifications enabled.")
	} else {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set; Firebase login and push notifications disabled.")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, log)

	if err := router.SetupRoutes(e, deps); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
