package router

import (
	"fmt"
	"time"

	"github.com/anonto42/review-site/backend/internal/handlers"
	"github.com/anonto42/review-site/backend/internal/middleware"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/anonto42/review-site/backend/internal/ws"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the connections and clients the routes are built from.
// Messages, Firebase and Pusher are optional.
type Deps struct {
	DB        *gorm.DB
	Messages  repositories.MessageRepository
	Firebase  services.TokenVerifier
	Pusher    services.Pusher
	Hub       *ws.Hub
	Log       *zap.SugaredLogger
	JWTSecret string
	JWTTTL    time.Duration
}

// SetupRoutes migrates the schema, wires repositories and services, and registers all routes
func SetupRoutes(e *echo.Echo, deps Deps) error {
	log := deps.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := repositories.AutoMigrate(deps.DB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("Database auto-migrations completed.")

	hub := deps.Hub
	if hub == nil {
		hub = ws.NewHub(log)
	}

	// --- Initialize Repositories ---
	repos := repositories.NewRepositories(deps.DB)
	if deps.Messages != nil {
		repos = repos.WithMessageStore(deps.Messages)
		log.Info("Direct messages are stored in MongoDB.")
	}

	// --- Initialize Services ---
	notifications := services.NewNotificationService(repos, hub, deps.Pusher, log)
	graph := services.NewSocialGraphService(repos, notifications)
	stores := services.NewStoreService(repos)
	reviews := services.NewReviewService(repos, notifications)
	reactions := services.NewReactionService(repos, notifications)
	tags := services.NewTagService(repos)
	messaging := services.NewMessagingService(repos, hub)
	profiles := services.NewProfileService(repos, graph, stores)
	auth := services.NewAuthService(repos, deps.JWTSecret, deps.JWTTTL, deps.Firebase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	api.GET("/health", handlers.HealthCheck)
	api.GET("/ratings/scale", handlers.RatingScale)
	api.GET("/ws", ws.NewHandler(hub, auth).Serve)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(auth, log)
	authHandler.RegisterAuthRoutes(api.Group("/auth"))
	log.Info("Auth routes configured.")

	read := api.Group("", middleware.OptionalAuth(auth))
	write := api.Group("", middleware.RequireAuth(auth))

	storeHandler := handlers.NewStoreHandler(stores, reviews, log)
	storeHandler.RegisterStoreReadRoutes(read)
	storeHandler.RegisterStoreRoutes(write)
	log.Info("Store routes configured.")

	reviewHandler := handlers.NewReviewHandler(reviews, reactions, log)
	reviewHandler.RegisterReviewRoutes(write)
	log.Info("Review routes configured.")

	tagHandler := handlers.NewTagHandler(tags, log)
	tagHandler.RegisterTagReadRoutes(read)
	tagHandler.RegisterTagRoutes(write)
	log.Info("Tag routes configured.")

	userHandler := handlers.NewUserHandler(profiles, log)
	userHandler.RegisterUserRoutes(read)
	userHandler.RegisterProfileRoutes(write)
	log.Info("User profile routes configured.")

	followHandler := handlers.NewFollowHandler(graph, log)
	followHandler.RegisterFollowListRoutes(read)
	followHandler.RegisterFollowRoutes(write)
	log.Info("Follow routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notifications, log)
	notificationHandler.RegisterNotificationRoutes(write)
	log.Info("Notification routes configured.")

	messageHandler := handlers.NewMessageHandler(messaging, log)
	messageHandler.RegisterMessageRoutes(write)
	log.Info("Message routes configured.")

	log.Info("All routes configured.")
	return nil
}
