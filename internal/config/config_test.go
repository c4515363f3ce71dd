package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SENSOR_API_URL", "http://localhost:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 3, cfg.Backend.MaxRetries)
	assert.Equal(t, "./exports", cfg.Export.Dir)
}

func TestLoadRejectsMissingBackendURL(t *testing.T) {
	t.Setenv("SENSOR_API_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SENSOR_API_URL", "http://localhost:9000")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err, "APP_ENV outside the allowed set must fail")

	t.Setenv("APP_ENV", "prod")
	t.Setenv("SENSOR_API_MAX_RETRIES", "99")
	_, err = Load()
	require.Error(t, err, "retry count outside bounds must fail")
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", in)
	}
}
