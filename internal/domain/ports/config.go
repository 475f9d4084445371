package ports

import (
	"context"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// ConfigLoader reads slidesmith's TOML layers: the per-user global file
// (~/.config/slidesmith/config.toml) and the per-directory slidesmith.toml.
type ConfigLoader interface {
	// LoadGlobal loads the global config file, writing defaults there on first run
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal loads slidesmith.toml from dir. A missing file yields a nil config.
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)

	// CreateDefaults writes the default configuration as TOML to path
	CreateDefaults(ctx context.Context, path string) error

	// GetGlobalPath returns the path to the global configuration file
	GetGlobalPath() string

	// GetLocalPath returns the path of slidesmith.toml inside dir
	GetLocalPath(dir string) string
}

// ConfigMerger folds configuration layers together.
// Precedence, lowest first: defaults, global file, slidesmith.toml,
// SLIDESMITH_* environment variables, command-line flags.
type ConfigMerger interface {
	// Merge layers configs over the defaults, later non-zero values winning
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags applies command-line overrides keyed by flag name
	// (port, host, templates-dir, output-dir, log-level, log-json)
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars applies SLIDESMITH_* environment overrides
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService defines the interface for the configuration service
type ConfigService interface {
	// LoadConfig resolves defaults, global file, workingDir/slidesmith.toml,
	// environment and flags into one validated config
	LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error)

	// GetDefaultConfig returns the default configuration
	GetDefaultConfig() *entities.Config

	// ValidateConfig validates a configuration
	ValidateConfig(config *entities.Config) error

	// CreateGlobalConfig writes the defaults to ~/.config/slidesmith/config.toml
	CreateGlobalConfig(ctx context.Context) error
}
