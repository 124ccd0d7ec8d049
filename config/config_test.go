package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearGoseisEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"GOSEIS_EVENT_SERVICE_URL", "GOSEIS_STATION_SERVICE_URL", "GOSEIS_TIMESERIES_SERVICE_URL",
		"GOSEIS_HTTP_TIMEOUT", "GOSEIS_WORKER_POOL_SIZE", "GOSEIS_CACHE_TTL", "GOSEIS_CACHE_CAPACITY",
		"GOSEIS_LOG_LEVEL",
	}
	for _, k := range keys {
		orig, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, orig)
			}
		})
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearGoseisEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.WorkerPoolSize)
	assert.Equal(t, 50, cfg.CacheCapacity)
	assert.NotEmpty(t, cfg.EventServiceURL)
	assert.NotEmpty(t, cfg.StationServiceURL)
	assert.NotEmpty(t, cfg.TimeseriesServiceURL)
}

func TestLoadRejectsOversizedWorkerPool(t *testing.T) {
	clearGoseisEnv(t)
	os.Setenv("GOSEIS_WORKER_POOL_SIZE", "25")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadHonoursOverrides(t *testing.T) {
	clearGoseisEnv(t)
	os.Setenv("GOSEIS_WORKER_POOL_SIZE", "4")
	os.Setenv("GOSEIS_CACHE_CAPACITY", "100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.WorkerPoolSize)
	assert.Equal(t, 100, cfg.CacheCapacity)
}
