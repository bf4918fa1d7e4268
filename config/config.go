package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "menu-admin-dev-session-secret"

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type UploadConfig struct {
	URL      string
	Preset   string
	MaxBytes int64
}

type SessionConfig struct {
	Secret      string
	IdleTimeout time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	CORSAllowOrigin string
	Backend         BackendConfig
	Upload          UploadConfig
	Session         SessionConfig
	RateLimit       RateLimitConfig
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the environment alone.
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         os.Getenv("GIN_MODE"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: os.Getenv("CORS_ALLOW_ORIGIN"),
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:9999"), "/"),
			Timeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30, 1, 600)) * time.Second,
		},
		Upload: UploadConfig{
			URL:      getEnv("UPLOAD_URL", "https://api.cloudinary.com/v1_1/dki4y4chk/image/upload"),
			Preset:   getEnv("UPLOAD_PRESET", "foodMad"),
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20, 1<<10, 100<<20)),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", devSessionSecret),
			IdleTimeout: time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 60, 1, 24*60)) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst: getEnvInt("RATE_LIMIT_BURST", 40, 1, 10000),
		},
	}
}

// UsingDevSecret reports whether no SESSION_SECRET was configured.
func (c *Config) UsingDevSecret() bool {
	return c.Session.Secret == devSessionSecret
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def, min, max int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
