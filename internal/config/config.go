// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// ErrMissingSessionSecret is returned when production runs without a signing secret.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required in production")

// devSessionSecret signs session tokens in development when SESSION_SECRET is unset.
const devSessionSecret = "linkly-dev-session-secret"

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Database (PostgreSQL)
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBAutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	DBConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"10"`
	DBHealthInterval  time.Duration `env:"DB_HEALTH_INTERVAL" envDefault:"5s"`

	// Session store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Base URL for short links (e.g., https://lnk.ly)
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// Request body size limit in bytes. Profile photos travel as data URIs, hence 50MB.
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"52428800"`

	// Password hashing
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`

	// Sessions
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load reads an optional .env file, parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSessionSecret
		}
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}
