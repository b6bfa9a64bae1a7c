package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Broker     BrokerConfig
	Admin      AdminConfig
	Storefront StorefrontConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// StorageConfig selects the durable key-value backend used for the state
// snapshot and sessions.
type StorageConfig struct {
	Backend  string // file | redis | memory
	Dir      string // file backend: directory for JSON files
	RedisURL string // redis backend
}

// DatabaseConfig points at the hosted backend. An empty URL selects the
// in-memory gateway (development and tests).
type DatabaseConfig struct {
	URL string
}

// BrokerConfig points at the order-event broker. An empty URL disables
// event publishing.
type BrokerConfig struct {
	AMQPURL string
}

// AdminConfig is the fixed admin credential pair. The hash is bcrypt; the
// default pair is thehungrydrop / admin123.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// StorefrontConfig overrides the storefront defaults carried in application
// state.
type StorefrontConfig struct {
	MenuSeedFile string
	DeliveryFee  float64
	MinimumOrder float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", StorageFile),
			Dir:      getEnv("STORAGE_DIR", "./data"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Broker: BrokerConfig{
			AMQPURL: getEnv("AMQP_URL", ""),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "thehungrydrop"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"),
		},
		Storefront: StorefrontConfig{
			MenuSeedFile: getEnv("MENU_SEED_FILE", "configs/menu.yaml"),
			DeliveryFee:  getEnvAsFloat("DELIVERY_FEE", 250),
			MinimumOrder: getEnvAsFloat("MINIMUM_ORDER", 750),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file backend")
		}
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be file, redis, or memory)", c.Storage.Backend)
	}

	if c.Admin.Username == "" || c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD_HASH are required")
	}

	if c.Storefront.DeliveryFee < 0 {
		return fmt.Errorf("DELIVERY_FEE cannot be negative")
	}
	if c.Storefront.MinimumOrder < 0 {
		return fmt.Errorf("MINIMUM_ORDER cannot be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
