package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chroniclehq/chronicle/pkg/observability"
	"github.com/chroniclehq/chronicle/pkg/trail"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Trail    TrailConfig
	LogLevel observability.LogLevel
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// DatabaseConfig holds PostgreSQL configuration. An empty URL selects the
// in-memory stores (dev mode).
type DatabaseConfig struct {
	URL      string
	MaxConns int
}

// TrailConfig holds audit trail configuration
type TrailConfig struct {
	// CategoriesFile optionally points at a YAML category registry;
	// empty means the built-in categories.
	CategoriesFile string
	Retention      trail.RetentionPolicy
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("CHRONICLE_HOST", "0.0.0.0"),
			Port:            getEnv("CHRONICLE_PORT", "8080"),
			ReadTimeout:     getEnvDuration("CHRONICLE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("CHRONICLE_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("CHRONICLE_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("CHRONICLE_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:      getEnv("CHRONICLE_POSTGRES_URL", ""),
			MaxConns: getEnvInt("CHRONICLE_POSTGRES_MAX_CONNS", 20),
		},
		Trail: TrailConfig{
			CategoriesFile: getEnv("CHRONICLE_CATEGORIES_FILE", ""),
			Retention: trail.RetentionPolicy{
				RetentionDays: getEnvInt("CHRONICLE_RETENTION_DAYS", trail.DefaultRetentionPolicy().RetentionDays),
			},
		},
		LogLevel: observability.ParseLogLevel(getEnv("CHRONICLE_LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %q", c.Server.Port)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database max connections must be positive")
	}
	if c.Trail.Retention.RetentionDays <= 0 {
		return fmt.Errorf("retention days must be positive")
	}
	return nil
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
