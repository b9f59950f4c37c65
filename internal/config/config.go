package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all runtime configuration for the application.
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	TokenExpiry time.Duration
	CORSOrigin  string
}

// LoadConfig reads configuration from a .env file (if present) and
// environment variables, falling back to sensible defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "planner.db"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getEnvDuration("TOKEN_EXPIRY_HOURS", 24),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, tokens will be signed with an empty secret")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallbackHours int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallbackHours) * time.Hour
	}
	hours, err := strconv.Atoi(value)
	if err != nil {
		log.WithField(key, value).Warn("Invalid duration value, using default")
		return time.Duration(fallbackHours) * time.Hour
	}
	return time.Duration(hours) * time.Hour
}
