// Package routes defines the HTTP routes for the MongoDB tool service.
package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mongobridge/tool-service/internal/api/handlers"
	"github.com/mongobridge/tool-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler  *handlers.HealthHandler
	ToolsHandler   *handlers.ToolsHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// API v1 routes - all routes under /api/v1/tool-service
	v1 := r.Group("/api/v1/tool-service")
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		// Apply auth middleware to the tool surface
		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		protected.GET("/tools", cfg.ToolsHandler.List)
		protected.POST("/tools/:name", cfg.ToolsHandler.Invoke)
	}

	// Swagger UI
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(middleware.NotFound())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	// Apply global middleware
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())
	r.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()))

	// Setup routes
	Setup(r, cfg)
}
