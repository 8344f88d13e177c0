package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                    string
	DatabaseDSN               string
	RedisAddr                 string
	RateLimit                 int
	ShutdownTimeoutSeconds    int
	IdempotencyKeyPrefix      string
	OutboxStreamKey           string
	OutboxCheckpointKey       string
	OutboxBatchSize           int
	OutboxPollIntervalSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                    fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:               getEnv("DATABASE_DSN", "tasks.db"),
		RedisAddr:                 fmt.Sprintf("%s:%s", redisHost, redisPort),
		RateLimit:                 getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds:    getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		IdempotencyKeyPrefix:      getEnv("IDEMPOTENCY_KEY_PREFIX", "idempotency:"),
		OutboxStreamKey:           getEnv("OUTBOX_STREAM_KEY", "task_events"),
		OutboxCheckpointKey:       getEnv("OUTBOX_CHECKPOINT_KEY", "task_events_checkpoint"),
		OutboxBatchSize:           getEnvAsInt("OUTBOX_BATCH_SIZE", 100),
		OutboxPollIntervalSeconds: getEnvAsInt("OUTBOX_POLL_INTERVAL_SECONDS", 5),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.OutboxBatchSize <= 0 {
		log.Fatal("OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if cfg.OutboxPollIntervalSeconds <= 0 {
		log.Fatal("OUTBOX_POLL_INTERVAL_SECONDS must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
