package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// EnvPrefix prefixes every environment variable read by this package
const EnvPrefix = "SLIDESMITH_"

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:               getEnvOrDefault("HOST", "0.0.0.0"),
			Port:               getEnvIntOrDefault("PORT", 8100),
			ReadTimeout:        getEnvIntOrDefault("READ_TIMEOUT", 30),
			WriteTimeout:       getEnvIntOrDefault("WRITE_TIMEOUT", 60),
			ShutdownTimeout:    getEnvIntOrDefault("SHUTDOWN_TIMEOUT", 5),
			Environment:        getEnvOrDefault("ENV", "development"),
			CORSOrigins:        getEnvSliceOrDefault("CORS_ORIGINS", []string{"*"}),
			MaxUploadMB:        getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
			RateLimitPerMinute: getEnvIntOrDefault("RATE_LIMIT", 120),
		},
		Storage: entities.StorageConfig{
			TemplatesDir: getEnvOrDefault("TEMPLATES_DIR", "templates"),
			OutputDir:    getEnvOrDefault("OUTPUT_DIR", "output"),
		},
		Generation: entities.GenerationConfig{
			PreviewLength:   getEnvIntOrDefault("PREVIEW_LENGTH", 100),
			DownloadPrefix:  getEnvOrDefault("DOWNLOAD_PREFIX", "/download/"),
			ListConcurrency: getEnvIntOrDefault("LIST_CONCURRENCY", 4),
			MaxPackageMB:    getEnvIntOrDefault("MAX_PACKAGE_MB", 256),
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			JSONFormat: getEnvBoolOrDefault("LOG_JSON", false),
			File:       getEnvOrDefault("LOG_FILE", ""),
		},
		Metrics: entities.MetricsConfig{
			Enabled:   boolPtr(getEnvBoolOrDefault("METRICS_ENABLED", true)),
			Path:      getEnvOrDefault("METRICS_PATH", "/metrics"),
			Namespace: getEnvOrDefault("METRICS_NAMESPACE", "slidesmith"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault splits a comma-separated variable, dropping empty items
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

func boolPtr(b bool) *bool {
	return &b
}
