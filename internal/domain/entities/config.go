package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Storage    StorageConfig    `toml:"storage"`
	Generation GenerationConfig `toml:"generation"`
	Logging    LoggingConfig    `toml:"logging"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("generation config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	ReadTimeout        int      `toml:"read_timeout"`
	WriteTimeout       int      `toml:"write_timeout"`
	ShutdownTimeout    int      `toml:"shutdown_timeout"`
	Environment        string   `toml:"environment"`
	CORSOrigins        []string `toml:"cors_origins"`
	MaxUploadMB        int      `toml:"max_upload_mb"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	if s.MaxUploadMB < 0 {
		return errors.New("max upload size must be non-negative")
	}

	if s.RateLimitPerMinute < 0 {
		return errors.New("rate limit must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// GetMaxUploadBytes returns the multipart upload limit in bytes (default 50MB)
func (s ServerConfig) GetMaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 50 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

// GetRateLimit returns requests allowed per client per minute (default 120)
func (s ServerConfig) GetRateLimit() int {
	if s.RateLimitPerMinute <= 0 {
		return 120
	}
	return s.RateLimitPerMinute
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// StorageConfig locates template inputs and generated outputs
type StorageConfig struct {
	TemplatesDir string `toml:"templates_dir"`
	OutputDir    string `toml:"output_dir"`
}

// Validate validates storage configuration
func (s StorageConfig) Validate() error {
	if s.TemplatesDir == "" {
		return errors.New("templates directory cannot be empty")
	}
	if s.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if filepath.Clean(s.TemplatesDir) == filepath.Clean(s.OutputDir) {
		return errors.New("templates and output directories must differ")
	}
	return nil
}

// GenerationConfig tunes the deck service
type GenerationConfig struct {
	PreviewLength   int    `toml:"preview_length"`
	DownloadPrefix  string `toml:"download_prefix"`
	ListConcurrency int    `toml:"list_concurrency"`
	MaxPackageMB    int    `toml:"max_package_mb"`
}

// Validate validates generation configuration
func (g GenerationConfig) Validate() error {
	if g.PreviewLength < 0 {
		return errors.New("preview length must be non-negative")
	}
	if g.ListConcurrency < 0 {
		return errors.New("list concurrency must be non-negative")
	}
	if g.MaxPackageMB < 0 {
		return errors.New("max package size must be non-negative")
	}
	if g.DownloadPrefix != "" && !strings.HasPrefix(g.DownloadPrefix, "/") {
		return fmt.Errorf("download prefix must start with /: %s", g.DownloadPrefix)
	}
	return nil
}

// GetPreviewLength returns the analysis text preview length (default 100 runes)
func (g GenerationConfig) GetPreviewLength() int {
	if g.PreviewLength <= 0 {
		return 100
	}
	return g.PreviewLength
}

// GetDownloadPrefix returns the URL prefix of generated files
func (g GenerationConfig) GetDownloadPrefix() string {
	if g.DownloadPrefix == "" {
		return "/download/"
	}
	if !strings.HasSuffix(g.DownloadPrefix, "/") {
		return g.DownloadPrefix + "/"
	}
	return g.DownloadPrefix
}

// GetListConcurrency returns how many templates are loaded at once when listing
func (g GenerationConfig) GetListConcurrency() int {
	if g.ListConcurrency <= 0 {
		return 4
	}
	return g.ListConcurrency
}

// GetMaxPackageBytes returns the cap on a package's uncompressed size (default 256MB)
func (g GenerationConfig) GetMaxPackageBytes() int64 {
	if g.MaxPackageMB <= 0 {
		return 256 << 20
	}
	return int64(g.MaxPackageMB) << 20
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled   *bool  `toml:"enabled"`
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// Validate validates metrics configuration
func (m MetricsConfig) Validate() error {
	if m.Path != "" && !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("metrics path must start with /: %s", m.Path)
	}
	return nil
}

// IsEnabled reports whether metrics are served (default true)
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// GetPath returns the metrics endpoint path
func (m MetricsConfig) GetPath() string {
	if m.Path == "" {
		return "/metrics"
	}
	return m.Path
}

// GetNamespace returns the metric name prefix
func (m MetricsConfig) GetNamespace() string {
	if m.Namespace == "" {
		return "slidesmith"
	}
	return m.Namespace
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Log to file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
