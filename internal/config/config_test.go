package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/scorekeep/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "127.0.0.1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.StorageType)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
}

func TestLoadRejectsUnknownStorageType(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid STORAGE_TYPE")
}

func TestLoadRequiresBackendSettings(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "redis")
	_, err := config.Load()
	assert.ErrorContains(t, err, "REDIS_URL is required")

	t.Setenv("STORAGE_TYPE", "bucket")
	_, err = config.Load()
	assert.ErrorContains(t, err, "BUCKET_NAME is required")

	t.Setenv("BUCKET_NAME", "scorekeep-games")
	_, err = config.Load()
	assert.ErrorContains(t, err, "PROJECT_ID is required")
}
