package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/plumekit/plume-backend/internal/handlers"
	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/middleware"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/plumekit/plume-backend/internal/services"
	"github.com/plumekit/plume-backend/pkg/cache"
	"github.com/plumekit/plume-backend/pkg/config"
	"github.com/sirupsen/logrus"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes runs migrations, wires dependencies and registers all routes.
// firebaseAuthClient may be nil; the Firebase login variant is then disabled.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseAuthClient *auth.Client, pusher *hub.Hub) {
	log := logrus.StandardLogger()

	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Comment{},
		&models.Like{},
		&models.Subscription{},
		&models.Notification{},
	)
	if err != nil {
		log.WithError(err).Fatal("failed to auto migrate models")
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	blogRepo := repositories.NewPostgresBlogRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database("plume"))
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	// --- Services ---
	recorder := services.NewActivityRecorder(postRepo, subscriptionRepo, notificationRepo, pusher, log)
	notificationService := services.NewNotificationService(notificationRepo, postRepo, likeRepo, pusher, log)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, blogRepo, pusher, log)
	cascader := services.NewCascader(postRepo, commentRepo, likeRepo, notificationRepo, subscriptionRepo, blogRepo)
	likeCounter := cache.NewLikeCounter(db.Redis, log)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// Live channel authenticates per-connection with the same credential.
	wsHandler := handlers.NewWSHandler(pusher, cfg.JWTSecret, log)
	wsHandler.RegisterWSRoutes(e)

	// --- Protected routes ---
	// AUTH_PROVIDER selects the middleware; both variants leave the same
	// claims in the context, so the handlers below are provider-agnostic.
	api := e.Group("/api/v1")
	if cfg.AuthProvider == "firebase" {
		if firebaseAuthClient == nil {
			log.Fatal("AUTH_PROVIDER=firebase requires FIREBASE_CREDENTIALS_PATH")
		}
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	}

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)

	blogHandler := handlers.NewBlogHandler(blogRepo, cascader)
	blogHandler.RegisterBlogRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, blogRepo, recorder, cascader)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, recorder)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, recorder, likeCounter)
	likeHandler.RegisterLikeRoutes(api)

	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	subscriptionHandler.RegisterSubscriptionRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)

	log.Info("all routes configured")
}
