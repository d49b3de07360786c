package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/civicdesk/backend/internal/database"
	"github.com/civicdesk/backend/internal/logger"
	"github.com/civicdesk/backend/internal/media"
	"github.com/civicdesk/backend/internal/middleware"
	"github.com/civicdesk/backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{"http://localhost:5173"}
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 24 * time.Hour
	return cfg
}

func main() {
	// Initialize logger first
	logger.Initialize()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables", nil)
	}

	// Connect to database
	database.Connect()
	database.AutoMigrate()

	// Media store for complaint attachments
	store, err := media.NewFromEnv()
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to initialize media store")
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig()))
	r.Use(gin.Recovery())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"time":     time.Now().Format(time.RFC3339),
		})
	})

	routes.SetupRoutes(r, database.DB, store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{"port": port})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().WithError(err).Fatal("Server failed")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	logger.Warn("Received shutdown signal, stopping server...", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().WithError(err).Error("Forced shutdown")
	}
}
