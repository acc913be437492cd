// Package config provides configuration management for the sensores dashboard service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Cache  CacheConfig
	Auth   AuthConfig
	Export ExportConfig
	Theme  ThemeConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    int
	MinPoolSize    int
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	// Backend selects the cache implementation: "memory" or "redis"
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
}

// ExportConfig holds chart export configuration
type ExportConfig struct {
	Dir string
}

// ThemeConfig holds UI theme defaults served to clients
type ThemeConfig struct {
	// Default is the theme used when a client has no stored preference
	// and asks the server to resolve "system": "light" or "dark".
	Default string
}

// Load loads configuration from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "sensores"),
			ConnectTimeout: getEnvAsDuration("MONGO_CONNECT_TIMEOUT", "10s"),
			MaxPoolSize:    getEnvAsInt("MONGO_MAX_POOL_SIZE", 25),
			MinPoolSize:    getEnvAsInt("MONGO_MIN_POOL_SIZE", 2),
		},
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", "memory"),
			TTL:           getEnvAsDuration("CACHE_TTL", "30s"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: GetSecret("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:         GetSecret("JWT_SECRET", "dev-secret-key-change-in-production"),
			JWTAccessTokenTTL: getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", "24h"),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "exports"),
		},
		Theme: ThemeConfig{
			Default: getEnv("THEME_DEFAULT", "light"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}
	switch c.Theme.Default {
	case "light", "dark":
	default:
		return fmt.Errorf("THEME_DEFAULT must be \"light\" or \"dark\", got %q", c.Theme.Default)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		defaultDuration, _ := time.ParseDuration(defaultValue)
		return defaultDuration
	}
	return value
}
