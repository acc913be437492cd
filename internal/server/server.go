// Package server provides HTTP server setup and configuration.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sebasr/sensores-dashboard/internal/auth"
	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/chart"
	"github.com/sebasr/sensores-dashboard/internal/config"
	"github.com/sebasr/sensores-dashboard/internal/handlers"
	"github.com/sebasr/sensores-dashboard/internal/middleware"
	"github.com/sebasr/sensores-dashboard/internal/repository"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("RequestID", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggerMiddleware logs each request through logrus. Health checks are
// skipped to keep probe noise out of the logs.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/api/v1/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"requestId": c.GetString("RequestID"),
		}).Info("request")
	}
}

// Dependencies holds all dependencies needed to create a server
type Dependencies struct {
	Config   *config.Config
	Reader   *binding.Reader
	Mutator  *binding.Mutator
	Exporter *chart.Exporter
	UserRepo repository.UserRepository
	Health   handlers.HealthChecker
}

// New creates a new Gin router with all routes configured
func New(deps *Dependencies) *gin.Engine {
	// Release mode keeps ANSI color codes out of the logs
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware())

	// CORS for the browser dashboard
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Encoding", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(RequestIDMiddleware())
	router.Use(middleware.RateLimit(middleware.GeneralRateLimit, time.Minute))
	// SSE responses must reach the client unbuffered, so the live stream is
	// excluded from compression.
	router.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithDecompressFn(gzip.DefaultDecompressHandle),
		gzip.WithExcludedPathsRegexs([]string{`.*/live$`}),
	))

	jwtService := auth.NewJWTService(
		deps.Config.Auth.JWTSecret,
		deps.Config.Auth.JWTAccessTokenTTL,
	)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	authRateLimiter := middleware.NewAuthRateLimitMiddleware()

	healthHandler := handlers.NewHealthHandler(deps.Health)
	authHandler := handlers.NewAuthHandler(deps.UserRepo, jwtService)
	deviceHandler := handlers.NewDeviceHandler(deps.Reader)
	chartHandler := handlers.NewChartHandler(deps.Reader, deps.Exporter)
	telemetryHandler := handlers.NewTelemetryHandler(deps.Mutator)
	liveHandler := handlers.NewLiveHandler(deps.Reader.Gateway())
	preferencesHandler := handlers.NewPreferencesHandler(deps.Reader, deps.Mutator, deps.Config.Theme.Default)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Handle)

		// Auth routes (with stricter rate limiting)
		authGroup := v1.Group("/auth")
		authGroup.Use(authRateLimiter)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Telemetry ingestion (optional auth so devices can post directly)
		v1.POST("/telemetry", authMiddleware.Optional(), telemetryHandler.HandlePost)

		// Protected device routes
		devices := v1.Group("/devices")
		devices.Use(authMiddleware.Required())
		{
			devices.GET("", deviceHandler.ListDevices)
			devices.GET("/:id", deviceHandler.GetDevice)
			devices.GET("/:id/chart", chartHandler.GetChartData)
			devices.GET("/:id/chart.png", chartHandler.GetChartPNG)
			devices.POST("/:id/chart/export", chartHandler.ExportChart)
			devices.GET("/:id/live", liveHandler.Stream)
		}

		// Protected preference routes
		preferences := v1.Group("/preferences")
		preferences.Use(authMiddleware.Required())
		{
			preferences.GET("/theme", preferencesHandler.GetTheme)
			preferences.PUT("/theme", preferencesHandler.PutTheme)
		}
	}

	return router
}
