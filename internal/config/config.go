package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SelectionStoreBolt  = "bolt"
	SelectionStoreRedis = "redis"
)

var ErrMissingConnectionString = errors.New("missing DB_CONNECTION_STRING in environment variables")

type Config struct {
	HTTPAddr              string
	LogMode               string
	DBConnectionString    string
	SelectionStore        string
	SelectionBoltPath     string
	SelectionKey          string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	SyncMaxConcurrency    int
	CatalogResyncSchedule string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		LogMode:               getEnv("LOG_MODE", "dev"),
		DBConnectionString:    getEnv("DB_CONNECTION_STRING", ""),
		SelectionStore:        strings.ToLower(getEnv("SELECTION_STORE", SelectionStoreBolt)),
		SelectionBoltPath:     getEnv("SELECTION_BOLT_PATH", "shopping.db"),
		SelectionKey:          getEnv("SELECTION_KEY", "rp_shopping_list"),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		CatalogResyncSchedule: getEnv("CATALOG_RESYNC_SCHEDULE", "@every 6h"),
	}

	if cfg.DBConnectionString == "" {
		return nil, ErrMissingConnectionString
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SyncMaxConcurrency, err = getEnvInt("SYNC_MAX_CONCURRENCY", 0); err != nil {
		return nil, err
	}
	if cfg.SyncMaxConcurrency < 0 {
		return nil, fmt.Errorf("SYNC_MAX_CONCURRENCY must not be negative, got %d", cfg.SyncMaxConcurrency)
	}

	switch cfg.SelectionStore {
	case SelectionStoreBolt:
	case SelectionStoreRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("missing REDIS_ADDR for redis selection store")
		}
	default:
		return nil, fmt.Errorf("unknown SELECTION_STORE %q, expected %q or %q", cfg.SelectionStore, SelectionStoreBolt, SelectionStoreRedis)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
