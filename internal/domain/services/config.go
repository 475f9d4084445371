package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// ConfigService resolves the effective configuration.
//
// Precedence, lowest first: built-in defaults, the global config file,
// slidesmith.toml in the working directory, SLIDESMITH_* environment
// variables, command-line flags.
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig loads the complete configuration with hierarchy and overrides
func (s *ConfigService) LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error) {
	layers := []*entities.Config{s.GetDefaultConfig()}

	global, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	if global != nil {
		layers = append(layers, global)
	}

	local, err := s.loader.LoadLocal(ctx, workingDir)
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}
	if local != nil {
		layers = append(layers, local)
	}

	cfg := s.merger.Merge(layers...)
	cfg = s.merger.ApplyEnvVars(cfg)
	cfg = s.merger.ApplyFlags(cfg, flags)

	if err := s.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns the default configuration.
// Merging zero layers yields the merger's defaults.
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	return config.Validate()
}

// CreateGlobalConfig writes the default configuration to the global config path
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}

var _ ports.ConfigService = (*ConfigService)(nil)
