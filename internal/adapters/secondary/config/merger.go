package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence.
// Zero values in a later config leave the earlier value in place.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = &entities.Config{}
	}

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if dir, ok := flags["templates-dir"].(string); ok && dir != "" {
		result.Storage.TemplatesDir = dir
	}

	if dir, ok := flags["output-dir"].(string); ok && dir != "" {
		result.Storage.OutputDir = dir
	}

	if level, ok := flags["log-level"].(string); ok && level != "" {
		result.Logging.Level = level
	}

	if jsonLogs, ok := flags["log-json"].(bool); ok {
		result.Logging.JSONFormat = jsonLogs
	}

	return result
}

// ApplyEnvVars applies SLIDESMITH_* environment overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if host := os.Getenv(EnvPrefix + "HOST"); host != "" {
		result.Server.Host = host
	}

	if portStr := os.Getenv(EnvPrefix + "PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}

	if env := os.Getenv(EnvPrefix + "ENV"); env != "" {
		result.Server.Environment = env
	}

	if origins := getEnvSliceOrDefault("CORS_ORIGINS", nil); len(origins) > 0 {
		result.Server.CORSOrigins = origins
	}

	if dir := os.Getenv(EnvPrefix + "TEMPLATES_DIR"); dir != "" {
		result.Storage.TemplatesDir = dir
	}

	if dir := os.Getenv(EnvPrefix + "OUTPUT_DIR"); dir != "" {
		result.Storage.OutputDir = dir
	}

	if prefix := os.Getenv(EnvPrefix + "DOWNLOAD_PREFIX"); prefix != "" {
		result.Generation.DownloadPrefix = prefix
	}

	if mbStr := os.Getenv(EnvPrefix + "MAX_PACKAGE_MB"); mbStr != "" {
		if mb, err := strconv.Atoi(mbStr); err == nil && mb > 0 {
			result.Generation.MaxPackageMB = mb
		}
	}

	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	if jsonStr := os.Getenv(EnvPrefix + "LOG_JSON"); jsonStr != "" {
		if jsonLogs, err := strconv.ParseBool(jsonStr); err == nil {
			result.Logging.JSONFormat = jsonLogs
		}
	}

	if enabledStr := os.Getenv(EnvPrefix + "METRICS_ENABLED"); enabledStr != "" {
		if enabled, err := strconv.ParseBool(enabledStr); err == nil {
			result.Metrics.Enabled = &enabled
		}
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}
	if source.Server.MaxUploadMB != 0 {
		target.Server.MaxUploadMB = source.Server.MaxUploadMB
	}
	if source.Server.RateLimitPerMinute != 0 {
		target.Server.RateLimitPerMinute = source.Server.RateLimitPerMinute
	}

	// Storage
	if source.Storage.TemplatesDir != "" {
		target.Storage.TemplatesDir = source.Storage.TemplatesDir
	}
	if source.Storage.OutputDir != "" {
		target.Storage.OutputDir = source.Storage.OutputDir
	}

	// Generation
	if source.Generation.PreviewLength != 0 {
		target.Generation.PreviewLength = source.Generation.PreviewLength
	}
	if source.Generation.DownloadPrefix != "" {
		target.Generation.DownloadPrefix = source.Generation.DownloadPrefix
	}
	if source.Generation.ListConcurrency != 0 {
		target.Generation.ListConcurrency = source.Generation.ListConcurrency
	}
	if source.Generation.MaxPackageMB != 0 {
		target.Generation.MaxPackageMB = source.Generation.MaxPackageMB
	}

	// Logging. TOML cannot tell false from unset, so JSONFormat only turns on.
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.JSONFormat {
		target.Logging.JSONFormat = true
	}
	if source.Logging.File != "" {
		target.Logging.File = source.Logging.File
	}

	// Metrics
	if source.Metrics.Enabled != nil {
		enabled := *source.Metrics.Enabled
		target.Metrics.Enabled = &enabled
	}
	if source.Metrics.Path != "" {
		target.Metrics.Path = source.Metrics.Path
	}
	if source.Metrics.Namespace != "" {
		target.Metrics.Namespace = source.Metrics.Namespace
	}
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Metrics.Enabled != nil {
		enabled := *src.Metrics.Enabled
		dst.Metrics.Enabled = &enabled
	}
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = make([]string, len(src.Server.CORSOrigins))
		copy(dst.Server.CORSOrigins, src.Server.CORSOrigins)
	}
	return &dst
}

var _ ports.ConfigMerger = (*ConfigMerger)(nil)
