// Package main is the entry point for the MongoDB Tool Service.
// @title MongoDB Tool Service API
// @version 1.0
// @description HTTP gateway exposing a catalogue of MongoDB management tools behind a single connection registry
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1/tool-service
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Static bearer token authentication (AUTH_TOKEN)
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/mongobridge/tool-service/docs"
	"github.com/mongobridge/tool-service/internal/api/handlers"
	"github.com/mongobridge/tool-service/internal/api/middleware"
	"github.com/mongobridge/tool-service/internal/api/routes"
	"github.com/mongobridge/tool-service/internal/config"
	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/cache"
	rediscache "github.com/mongobridge/tool-service/internal/infrastructure/cache/redis"
	"github.com/mongobridge/tool-service/internal/infrastructure/docdb/mongodb"
	"github.com/mongobridge/tool-service/internal/tools"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := setupLogger(cfg.Log)

	// Initialize the optional stats cache
	statsCache, err := createCache(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache")
	}
	if statsCache != nil {
		defer statsCache.Close()
	}

	// Connection registry around the MongoDB dialer
	dialer := mongodb.NewDialer(mongodb.DialConfig{
		ConnectTimeout:         cfg.Mongo.ConnectTimeout,
		ServerSelectionTimeout: cfg.Mongo.ConnectTimeout,
		SocketTimeout:          cfg.Mongo.QueryTimeout,
	})
	connections := conn.NewRegistry(dialer, logger)
	defer connections.Disconnect(context.Background())

	// Optional startup auto-connect; failure is logged, not fatal, since
	// the connection can be configured later through the tool surface.
	if cfg.Mongo.AutoConnect {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout+time.Second)
		if _, err := connections.Configure(ctx, cfg.Mongo.ConnectionConfig()); err != nil {
			logger.Warn().Err(err).Msg("startup auto-connect failed")
		}
		cancel()
	}

	// Build the tool catalogue
	registry, err := buildCatalogue(connections, statsCache, cfg.Cache.TTL, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register tools")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	router := setupRouter(cfg, connections, registry, statsCache, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("name", cfg.Server.Name).
			Str("version", cfg.Server.Version).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	connections.Disconnect(shutdownCtx)
	logger.Info().Msg("server exited")
}

// setupLogger configures the process logger from config.
func setupLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// createCache creates the stats cache based on the configuration. A nil
// cache disables caching.
func createCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewCache(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
	default:
		return nil, nil
	}
}

// buildCatalogue registers every tool set on a fresh registry.
func buildCatalogue(connections *conn.Registry, statsCache cache.Cache, ttl time.Duration, logger zerolog.Logger) (*tools.Registry, error) {
	registry := tools.NewRegistry(logger)

	if err := tools.RegisterConnectionTools(registry, connections, statsCache, logger); err != nil {
		return nil, err
	}
	if err := tools.RegisterDatabaseTools(registry, connections); err != nil {
		return nil, err
	}
	if err := tools.RegisterCollectionTools(registry, connections); err != nil {
		return nil, err
	}
	if err := tools.RegisterDocumentTools(registry, connections); err != nil {
		return nil, err
	}
	if err := tools.RegisterIndexTools(registry, connections); err != nil {
		return nil, err
	}
	if err := tools.RegisterStatsTools(registry, connections, statsCache, ttl, logger); err != nil {
		return nil, err
	}
	return registry, nil
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, connections *conn.Registry, registry *tools.Registry, statsCache cache.Cache, logger zerolog.Logger) *gin.Engine {
	router := gin.New()

	loggingMw := middleware.NewLoggingMiddleware(logger)
	errorMw := middleware.NewErrorMiddleware(logger)
	authMw := middleware.NewAuthMiddleware(cfg.Auth.Token)

	routesCfg := &routes.Config{
		HealthHandler:  handlers.NewHealthHandler(connections, statsCache),
		ToolsHandler:   handlers.NewToolsHandler(registry),
		AuthMiddleware: authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)
	return router
}
