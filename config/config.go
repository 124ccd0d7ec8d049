// Package config loads the pipeline's environment-configurable settings:
// FDSN/IRIS endpoints, worker pool size, cache TTL/capacity, and request
// timeouts, following the .env-plus-getenv-with-defaults pattern used
// across the example pack's service entrypoints.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the complete set of environment-tunable pipeline settings.
type Config struct {
	EventServiceURL      string
	StationServiceURL    string
	TimeseriesServiceURL string

	HTTPTimeout time.Duration

	WorkerPoolSize int

	CacheTTL      time.Duration
	CacheCapacity int

	LogLevel string
}

// Load reads a .env file if present (missing is not an error, matching
// how the pack's services tolerate an absent .env in production), then
// resolves every setting from the environment with the spec's defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{
		EventServiceURL:      getEnvOrDefault("GOSEIS_EVENT_SERVICE_URL", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
		StationServiceURL:    getEnvOrDefault("GOSEIS_STATION_SERVICE_URL", "https://service.iris.edu/fdsnws/station/1/query"),
		TimeseriesServiceURL: getEnvOrDefault("GOSEIS_TIMESERIES_SERVICE_URL", "https://service.iris.edu/irisws/timeseries/1/query"),
		HTTPTimeout:          getEnvDurationOrDefault("GOSEIS_HTTP_TIMEOUT", 30*time.Second),
		WorkerPoolSize:       getEnvIntOrDefault("GOSEIS_WORKER_POOL_SIZE", 10),
		CacheTTL:             getEnvDurationOrDefault("GOSEIS_CACHE_TTL", 24*time.Hour),
		CacheCapacity:        getEnvIntOrDefault("GOSEIS_CACHE_CAPACITY", 50),
		LogLevel:             getEnvOrDefault("GOSEIS_LOG_LEVEL", "info"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.WorkerPoolSize <= 0 || cfg.WorkerPoolSize > 10 {
		return fmt.Errorf("config: worker pool size must be in (0, 10], got %d", cfg.WorkerPoolSize)
	}
	if cfg.CacheCapacity <= 0 {
		return fmt.Errorf("config: cache capacity must be positive, got %d", cfg.CacheCapacity)
	}
	if cfg.EventServiceURL == "" || cfg.StationServiceURL == "" || cfg.TimeseriesServiceURL == "" {
		return fmt.Errorf("config: event/station/timeseries service URLs are required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			return iv
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if dv, err := time.ParseDuration(v); err == nil {
			return dv
		}
	}
	return defaultValue
}
