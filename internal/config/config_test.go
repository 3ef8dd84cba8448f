package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 1000, cfg.Storage.MaxRecords)
	assert.Equal(t, 100, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, int64(1<<20), cfg.Capture.MaxJSONBody)
	assert.Equal(t, 30, cfg.Capture.MaxTimeoutSeconds)
	assert.False(t, cfg.AuthRequired())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("STORAGE_BACKEND", "mysql")
	t.Setenv("MAX_LOG_RECORDS", "50")
	t.Setenv("RATE_LIMIT", "7")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("API_KEYS", "key-a, key-b,,key-c")
	t.Setenv("MAX_TIMEOUT_SECONDS", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Storage.Backend)
	assert.Equal(t, 50, cfg.Storage.MaxRecords)
	assert.Equal(t, 7, cfg.RateLimit.Limit)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, cfg.Auth.Keys)
	assert.Equal(t, 10, cfg.Capture.MaxTimeoutSeconds)
	assert.True(t, cfg.AuthRequired())
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_LOG_RECORDS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Storage.MaxRecords)
}

func TestAuthRequired(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.AuthRequired())

	cfg.Auth.Enabled = true
	assert.True(t, cfg.AuthRequired())

	cfg.Auth.Enabled = false
	cfg.Auth.Keys = []string{"key"}
	assert.True(t, cfg.AuthRequired())
}
