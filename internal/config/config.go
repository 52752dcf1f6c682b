package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	BackendURL           string
	BackendTimeout       time.Duration
	TelegramBotToken     string
	LogLevel             string
	SyncWorkerCount      int
	SyncQueueSize        int
	RatingsRetryAttempts int
	RatingsRetryDelay    time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:reflecta.db"),
		BackendURL:           envOr("BACKEND_URL", "http://localhost:8000"),
		BackendTimeout:       envDurationOr("BACKEND_TIMEOUT", 15*time.Second),
		TelegramBotToken:     envOr("TELEGRAM_BOT_TOKEN", ""),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		SyncWorkerCount:      envIntOr("SYNC_WORKER_COUNT", 1),
		SyncQueueSize:        envIntOr("SYNC_QUEUE_SIZE", 32),
		RatingsRetryAttempts: envIntOr("RATINGS_RETRY_ATTEMPTS", 3),
		RatingsRetryDelay:    envDurationOr("RATINGS_RETRY_DELAY", 500*time.Millisecond),
	}
}

// Validate checks the configuration for values that would prevent the
// server from operating. All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.BackendURL == "" {
		problems = append(problems, "BACKEND_URL cannot be empty")
	}
	if c.BackendTimeout <= 0 {
		problems = append(problems, "BACKEND_TIMEOUT must be positive")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not valid", c.LogLevel))
	}
	if c.SyncWorkerCount <= 0 {
		problems = append(problems, "SYNC_WORKER_COUNT must be positive")
	}
	if c.SyncQueueSize <= 0 {
		problems = append(problems, "SYNC_QUEUE_SIZE must be positive")
	}
	if c.RatingsRetryAttempts <= 0 {
		problems = append(problems, "RATINGS_RETRY_ATTEMPTS must be positive")
	}
	if c.RatingsRetryDelay < 0 {
		problems = append(problems, "RATINGS_RETRY_DELAY cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
