// Package config loads the dashboard configuration from the environment,
// optionally seeded from a .env file. Loading happens once at startup and the
// result is immutable afterwards; any invalid value fails the process fast.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the top-level configuration for the dashboard service.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server  ServerConfig
	Backend BackendConfig
	Export  ExportConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// BackendConfig points at the sensor API that serves chart payloads.
type BackendConfig struct {
	BaseURL    string        `envconfig:"SENSOR_API_URL" validate:"required,url"`
	Timeout    time.Duration `envconfig:"SENSOR_API_TIMEOUT" default:"30s"`
	MaxRetries int           `envconfig:"SENSOR_API_MAX_RETRIES" default:"3" validate:"gte=0,lte=10"`
}

// ExportConfig controls where report exports and preference state live.
type ExportConfig struct {
	Dir       string `envconfig:"EXPORT_DIR" default:"./exports"`
	PrefsPath string `envconfig:"PREFS_PATH" default:"./exports/prefs.json"`
}

// Load resolves the configuration: .env file (non-fatal if absent), then the
// process environment, then struct validation.
func Load() (*Config, error) {
	// godotenv never overrides variables already present in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// SlogLevel translates the configured level string for the slog handler.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
