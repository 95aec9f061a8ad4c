// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mongobridge/tool-service/internal/domain/models"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Cache  CacheConfig
	Log    LogConfig
	Auth   AuthConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host        string
	Port        int
	GinMode     string
	Name        string
	Version     string
	Description string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MongoConfig holds the default MongoDB connection parameters. They seed
// the optional startup auto-connect and the configure tool's defaults.
type MongoConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	AuthSource     string
	Database       string
	MaxConnections int
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	AutoConnect    bool
}

// ConnectionConfig converts the defaults into a connection config.
func (c MongoConfig) ConnectionConfig() models.ConnectionConfig {
	return models.ConnectionConfig{
		Host:        c.Host,
		Port:        c.Port,
		Username:    c.Username,
		Password:    c.Password,
		AuthSource:  c.AuthSource,
		Database:    c.Database,
		MaxPoolSize: c.MaxConnections,
	}
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig holds the optional static bearer-token authentication.
type AuthConfig struct {
	Token string
}

// Bounds on the configurable connection pool.
const (
	MinConnections = 1
	MaxConnections = 100
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Name:        getEnv("SERVER_NAME", "mongodb-tool-service"),
			Version:     getEnv("SERVER_VERSION", "1.0.0"),
			Description: getEnv("SERVER_DESCRIPTION", "MongoDB tool gateway"),
		},
		Mongo: MongoConfig{
			Host:           getEnv("MONGODB_HOST", models.DefaultHost),
			Port:           getEnvAsInt("MONGODB_PORT", models.DefaultPort),
			Username:       getEnv("MONGODB_USERNAME", ""),
			Password:       getEnv("MONGODB_PASSWORD", ""),
			AuthSource:     getEnv("MONGODB_AUTH_SOURCE", models.DefaultAuthDB),
			Database:       getEnv("MONGODB_DATABASE", ""),
			MaxConnections: getEnvAsInt("MONGODB_MAX_CONNECTIONS", models.DefaultPoolSize),
			ConnectTimeout: time.Duration(getEnvAsInt("MONGODB_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
			QueryTimeout:   time.Duration(getEnvAsInt("MONGODB_QUERY_TIMEOUT_SECONDS", 30)) * time.Second,
			AutoConnect:    getEnvAsBool("MONGODB_AUTOCONNECT", false),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "none"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			Token: getEnv("AUTH_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Mongo.MaxConnections < MinConnections || c.Mongo.MaxConnections > MaxConnections {
		return fmt.Errorf("max connections must be between %d and %d, got %d",
			MinConnections, MaxConnections, c.Mongo.MaxConnections)
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %s", c.Mongo.ConnectTimeout)
	}
	if c.Mongo.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %s", c.Mongo.QueryTimeout)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
