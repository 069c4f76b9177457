// Package config loads and validates environment variables at startup.
// Fail-fast: a missing or malformed variable is an error before anything
// is opened.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Listing sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// DefaultDigestSchedule fires at 09:00 local time every day.
const DefaultDigestSchedule = "0 9 * * *"

// Config holds all runtime configuration for the tracker.
type Config struct {
	Port           string
	GRPCPort       string
	StoreBackend   string
	DataDir        string
	DatabaseURL    string
	RedisURL       string
	RedisNamespace string
	JobsSource     string
	JobsFile       string
	DigestSchedule string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("TRACKER_PORT", "8082"),
		GRPCPort:       getenv("TRACKER_GRPC_PORT", "9082"),
		StoreBackend:   getenv("STORE_BACKEND", BackendFile),
		DataDir:        getenv("DATA_DIR", "./data"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisNamespace: getenv("REDIS_NAMESPACE", "jobtracker:"),
		JobsSource:     getenv("JOBS_SOURCE", SourceFile),
		JobsFile:       getenv("JOBS_FILE", "./data/jobs.yaml"),
		DigestSchedule: getenv("DIGEST_SCHEDULE", DefaultDigestSchedule),
	}

	for name, port := range map[string]string{"TRACKER_PORT": cfg.Port, "TRACKER_GRPC_PORT": cfg.GRPCPort} {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("%s must be a port number, got %q", name, port)
		}
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STORE_BACKEND=redis")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of file, memory, redis, postgres, got %q", cfg.StoreBackend)
	}

	switch cfg.JobsSource {
	case SourceFile:
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when JOBS_SOURCE=postgres")
		}
	default:
		return nil, fmt.Errorf("JOBS_SOURCE must be file or postgres, got %q", cfg.JobsSource)
	}

	if _, err := cron.ParseStandard(cfg.DigestSchedule); err != nil {
		return nil, fmt.Errorf("DIGEST_SCHEDULE %q: %w", cfg.DigestSchedule, err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
