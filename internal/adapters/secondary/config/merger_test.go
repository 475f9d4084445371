package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

func TestConfigMerger_Merge(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("no configs returns defaults", func(t *testing.T) {
		result := merger.Merge()
		assert.Equal(t, GetDefaultConfig(), result)
	})

	t.Run("later layers win for fields they set", func(t *testing.T) {
		disabled := false
		base := GetDefaultConfig()
		global := &entities.Config{
			Server:  entities.ServerConfig{Port: 9000, CORSOrigins: []string{"https://a.example.com"}},
			Storage: entities.StorageConfig{TemplatesDir: "/srv/templates"},
		}
		local := &entities.Config{
			Server:     entities.ServerConfig{Port: 9100},
			Generation: entities.GenerationConfig{PreviewLength: 40},
			Logging:    entities.LoggingConfig{JSONFormat: true},
			Metrics:    entities.MetricsConfig{Enabled: &disabled},
		}

		result := merger.Merge(base, global, nil, local)

		assert.Equal(t, "0.0.0.0", result.Server.Host)
		assert.Equal(t, 9100, result.Server.Port)
		assert.Equal(t, []string{"https://a.example.com"}, result.Server.CORSOrigins)
		assert.Equal(t, "/srv/templates", result.Storage.TemplatesDir)
		assert.Equal(t, "output", result.Storage.OutputDir)
		assert.Equal(t, 40, result.Generation.PreviewLength)
		assert.True(t, result.Logging.JSONFormat)
		assert.False(t, result.Metrics.IsEnabled())

		assert.Equal(t, 8100, base.Server.Port, "inputs are not modified")
		assert.True(t, base.Metrics.IsEnabled())
	})

	t.Run("unset metrics flag keeps the earlier value", func(t *testing.T) {
		result := merger.Merge(GetDefaultConfig(), &entities.Config{Metrics: entities.MetricsConfig{Path: "/stats"}})
		assert.True(t, result.Metrics.IsEnabled())
		assert.Equal(t, "/stats", result.Metrics.Path)
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	merger := NewConfigMerger()
	base := GetDefaultConfig()

	result := merger.ApplyFlags(base, map[string]interface{}{
		"port":          9200,
		"host":          "127.0.0.1",
		"templates-dir": "decks",
		"output-dir":    "out",
		"log-level":     "debug",
		"log-json":      true,
	})

	assert.Equal(t, 9200, result.Server.Port)
	assert.Equal(t, "127.0.0.1", result.Server.Host)
	assert.Equal(t, "decks", result.Storage.TemplatesDir)
	assert.Equal(t, "out", result.Storage.OutputDir)
	assert.Equal(t, "debug", result.Logging.Level)
	assert.True(t, result.Logging.JSONFormat)
	assert.Equal(t, 8100, base.Server.Port)

	t.Run("ignores zero and mistyped values", func(t *testing.T) {
		result := merger.ApplyFlags(base, map[string]interface{}{
			"port": "9200",
			"host": "",
		})
		assert.Equal(t, base, result)

		assert.Equal(t, base, merger.ApplyFlags(base, nil))
	})
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("applies overrides", func(t *testing.T) {
		base := GetDefaultConfig()

		t.Setenv("SLIDESMITH_PORT", "9300")
		t.Setenv("SLIDESMITH_TEMPLATES_DIR", "/data/templates")
		t.Setenv("SLIDESMITH_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
		t.Setenv("SLIDESMITH_LOG_JSON", "true")
		t.Setenv("SLIDESMITH_METRICS_ENABLED", "false")
		t.Setenv("SLIDESMITH_MAX_PACKAGE_MB", "64")

		result := merger.ApplyEnvVars(base)

		assert.Equal(t, 9300, result.Server.Port)
		assert.Equal(t, "/data/templates", result.Storage.TemplatesDir)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, result.Server.CORSOrigins)
		assert.True(t, result.Logging.JSONFormat)
		assert.False(t, result.Metrics.IsEnabled())
		assert.Equal(t, int64(64<<20), result.Generation.GetMaxPackageBytes())
	})

	t.Run("ignores invalid values", func(t *testing.T) {
		base := GetDefaultConfig()

		t.Setenv("SLIDESMITH_PORT", "not-a-port")
		t.Setenv("SLIDESMITH_LOG_JSON", "maybe")

		result := merger.ApplyEnvVars(base)
		assert.Equal(t, 8100, result.Server.Port)
		assert.False(t, result.Logging.JSONFormat)
	})
}

func TestGetDefaultConfig_Env(t *testing.T) {
	t.Setenv("SLIDESMITH_OUTPUT_DIR", "/tmp/decks")
	t.Setenv("SLIDESMITH_LIST_CONCURRENCY", "8")

	config := GetDefaultConfig()
	assert.Equal(t, "/tmp/decks", config.Storage.OutputDir)
	assert.Equal(t, 8, config.Generation.ListConcurrency)
	require.NoError(t, config.Validate())
}

func TestDeepCopy(t *testing.T) {
	assert.Nil(t, deepCopy(nil))

	src := GetDefaultConfig()
	dst := deepCopy(src)
	require.Equal(t, src, dst)

	dst.Server.CORSOrigins[0] = "https://changed.example.com"
	*dst.Metrics.Enabled = false

	assert.Equal(t, "*", src.Server.CORSOrigins[0])
	assert.True(t, src.Metrics.IsEnabled())
}
