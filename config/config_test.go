package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.API.RestoreTimeout)
	assert.Equal(t, StorageBackendFile, cfg.Storage.Backend)
	assert.Equal(t, "cafetec:", cfg.Storage.Redis.Prefix)
	assert.Equal(t, 15*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 20, cfg.Report.PageSize)
}

func TestAppConfig_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://cafetec.example.edu/api/")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("STORAGE_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("TRACKER_POLL_INTERVAL", "30s")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "https://cafetec.example.edu/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, StorageBackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis.internal:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Tracker.PollInterval)
}

func TestStorageBackend_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    StorageBackend
		expectError bool
	}{
		{input: "file", expected: StorageBackendFile},
		{input: "FILE", expected: StorageBackendFile},
		{input: "redis", expected: StorageBackendRedis},
		{input: "sqlite", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var b StorageBackend
			err := b.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{
		API:     APIConfig{RequestTimeout: 10 * time.Millisecond, RestoreTimeout: -time.Second},
		Tracker: TrackerConfig{PollInterval: 50 * time.Millisecond},
		Report:  ReportConfig{PageSize: 100000},
	}
	cfg.Sanitize()

	assert.Equal(t, 15*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.API.RestoreTimeout)
	assert.Equal(t, 15*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 20, cfg.Report.PageSize)
	assert.Equal(t, StorageBackendFile, cfg.Storage.Backend)
}
