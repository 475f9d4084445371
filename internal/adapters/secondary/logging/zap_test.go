package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

func TestNew(t *testing.T) {
	t.Run("defaults to info", func(t *testing.T) {
		logger, err := New(entities.LoggingConfig{})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("debug level", func(t *testing.T) {
		logger, err := New(entities.LoggingConfig{Level: "debug", JSONFormat: true})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(entities.LoggingConfig{Level: "chatty"})
		assert.Error(t, err)
		assert.NotNil(t, Must(entities.LoggingConfig{Level: "chatty"}))
	})

	t.Run("writes JSON to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "slidesmith.log")
		logger, err := New(entities.LoggingConfig{Level: "warn", JSONFormat: true, File: path})
		require.NoError(t, err)

		logger.Info("dropped")
		logger.Warn("layout index out of range")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"layout index out of range"`)
		assert.NotContains(t, string(data), "dropped")
	})
}
