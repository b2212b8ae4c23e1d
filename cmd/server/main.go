package main

import (
	"context"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/router"
	"github.com/plumekit/plume-backend/pkg/config"
	"github.com/plumekit/plume-backend/pkg/firebase"
	"github.com/plumekit/plume-backend/validators"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize storage connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize databases")
	}
	defer db.CloseDB()

	// Firebase is an optional alternate identity provider.
	var firebaseAuthClient *firebaseauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize Firebase")
		}
		firebaseAuthClient = firebaseApp.AuthClient
	}

	// Live push connection registry, owned for the process lifetime.
	pusher := hub.New(logrus.StandardLogger())

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db, firebaseAuthClient, pusher)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
