package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKBOARD_DATABASE_URL", "postgres://localhost:5432/taskboard")
	t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 300, cfg.Cache.DefaultTTLSeconds)
	assert.Equal(t, 24*60, cfg.Sweep.IntervalMinutes)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, 2, cfg.Job.WorkerCount)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TASKBOARD_DATABASE_URL", "postgres://localhost:5432/taskboard")
	t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TASKBOARD_SERVER_PORT", "9000")
	t.Setenv("TASKBOARD_CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("TASKBOARD_SWEEP_INTERVAL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 15, cfg.Sweep.IntervalMinutes)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("TASKBOARD_DATABASE_URL", "postgres://localhost:5432/taskboard")
	t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}
