package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvConfig holds everything the service reads from the environment. Loaded
// once at startup and handed to bootstrap; nothing else reads os.Getenv.
type EnvConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string

	DB_HOST              string
	DB_PORT              string
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	JWT_SECRET    string
	JWT_TTL_HOURS int

	REPORT_CONFIG_PATH string
}

// Load reads .env when present, then the environment, applying defaults for
// everything except the JWT secret.
func Load() (*EnvConfig, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &EnvConfig{
		APP_PORT:             getEnv("APP_PORT", "8080"),
		LOG_FILE_PATH:        getEnv("LOG_FILE_PATH", ""),
		DB_HOST:              getEnv("DB_HOST", "localhost"),
		DB_PORT:              getEnv("DB_PORT", "5432"),
		DB_USER:              getEnv("DB_USER", "postgres"),
		DB_PASSWORD:          getEnv("DB_PASSWORD", ""),
		DB_NAME:              getEnv("DB_NAME", "taskdb"),
		DB_SSL_MODE:          getEnv("DB_SSL_MODE", "disable"),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DB_CONN_MAX_LIFETIME: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		JWT_SECRET:           getEnv("JWT_SECRET", ""),
		JWT_TTL_HOURS:        getEnvInt("JWT_TTL_HOURS", 24),
		REPORT_CONFIG_PATH:   getEnv("REPORT_CONFIG_PATH", ""),
	}

	if cfg.JWT_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
