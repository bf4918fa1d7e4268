package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "BACKEND_BASE_URL", "UPLOAD_URL", "UPLOAD_PRESET", "HTTP_TIMEOUT_SECONDS", "SESSION_SECRET"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:9999", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "foodMad", cfg.Upload.Preset)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.True(t, cfg.UsingDevSecret())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://menu.internal:9000/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg := FromEnv()

	assert.Equal(t, "http://menu.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.UsingDevSecret())
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
}

func TestGetEnvIntClamps(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "100000")
	assert.Equal(t, 600, getEnvInt("HTTP_TIMEOUT_SECONDS", 30, 1, 600))

	t.Setenv("HTTP_TIMEOUT_SECONDS", "abc")
	assert.Equal(t, 30, getEnvInt("HTTP_TIMEOUT_SECONDS", 30, 1, 600))
}
