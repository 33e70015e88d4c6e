package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment. A local .env
// file is honoured when present; real environment variables win.
type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	AdminSetupKey   string
	AdminKey        string
	TokenTTL        time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
	CORSOrigins     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AdminSetupKey:   os.Getenv("ADMIN_SETUP_KEY"),
		AdminKey:        os.Getenv("ADMIN_KEY"),
		TokenTTL:        getEnvDuration("TOKEN_TTL_HOURS", 24) * time.Hour,
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW_SECONDS", 60) * time.Second,
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
