package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/config"
)

func TestSetup(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		logger, err := Setup(config.ServerConfig{LogLevel: "debug"})
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger, err := Setup(config.ServerConfig{LogLevel: "loud"})
		require.NoError(t, err)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestContextHelpers(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := WithContext(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(context.Background(), base))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
