package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"region-feedback-server/config"
	"region-feedback-server/database"
	"region-feedback-server/jobs"
	"region-feedback-server/logger"
	"region-feedback-server/middleware"
	"region-feedback-server/routes"
	"region-feedback-server/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug().Msg("No .env file found, using environment variables")
	}

	if err := config.Load(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if config.AppConfig.Server.GinMode != "" {
		gin.SetMode(config.AppConfig.Server.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit())
	router.Use(middleware.RateLimit())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	hub := websocket.NewHub()
	go hub.Run()

	retention := jobs.NewRetentionJob(database.DB, config.AppConfig.Logs.RetentionDays)
	retention.Start()
	defer retention.Stop()

	routes.SetupRoutes(router, hub)

	addr := ":" + config.AppConfig.Server.Port
	logger.Log.Info().Str("addr", addr).Msg("Server listening")
	if err := router.Run(addr); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped")
	}
}
