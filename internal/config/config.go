package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	ListenAddr      string
	DatabaseURL     string
	RedisAddr       string
	IdentityBaseURL string
	EventWorkers    int
	EventBatchSize  int
	EventPollEvery  time.Duration
	DedupTTL        time.Duration
	InboxLimit      int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load reads configuration from the environment, with an optional .env file
// for local runs. An empty DATABASE_URL is not fatal; the caller decides
// whether to fall back to the in-memory adapters.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getenv("APP_ENV", "development"),
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		IdentityBaseURL: os.Getenv("IDENTITY_BASE_URL"),
		EventWorkers:    getenvInt("EVENT_WORKERS", 1),
		EventBatchSize:  getenvInt("EVENT_BATCH_SIZE", 20),
		EventPollEvery:  getenvDuration("EVENT_POLL_INTERVAL", 500*time.Millisecond),
		DedupTTL:        getenvDuration("DEDUP_TTL", 24*time.Hour),
		InboxLimit:      getenvInt("INBOX_LIMIT", 10),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
