package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// LocalConfigName is the per-directory configuration file
const LocalConfigName = "slidesmith.toml"

// TOMLLoader implements the ConfigLoader interface using TOML files
type TOMLLoader struct {
	globalPath string
	localName  string
}

// NewTOMLLoader creates a loader for ~/.config/slidesmith/config.toml and ./slidesmith.toml
func NewTOMLLoader() *TOMLLoader {
	homeDir, _ := os.UserHomeDir()
	return &TOMLLoader{
		globalPath: filepath.Join(homeDir, ".config", "slidesmith", "config.toml"),
		localName:  LocalConfigName,
	}
}

// NewTOMLLoaderWithGlobal creates a loader with an explicit global path
func NewTOMLLoaderWithGlobal(globalPath string) *TOMLLoader {
	return &TOMLLoader{globalPath: globalPath, localName: LocalConfigName}
}

// LoadGlobal loads the global configuration file, writing defaults on first run
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(l.globalPath); errors.Is(err, fs.ErrNotExist) {
		if err := l.CreateDefaults(ctx, l.globalPath); err != nil {
			return nil, fmt.Errorf("creating defaults: %w", err)
		}
	}

	return l.loadConfig(l.globalPath)
}

// LoadLocal loads slidesmith.toml from dir; a missing file yields nil
func (l *TOMLLoader) LoadLocal(_ context.Context, dir string) (*entities.Config, error) {
	localPath := l.GetLocalPath(dir)

	if _, err := os.Stat(localPath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	return l.loadConfig(localPath)
}

// CreateDefaults writes the default configuration to path
func (l *TOMLLoader) CreateDefaults(_ context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	file, err := os.Create(path) // #nosec G304 - path is the configured global config path
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	encoder := toml.NewEncoder(file)
	encoder.Indent = "  "

	if err := encoder.Encode(GetDefaultConfig()); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath returns the path to the global configuration file
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

// GetLocalPath returns the path to the local configuration file for a directory
func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// loadConfig decodes a file as a partial configuration. Only the sections a
// file names are checked here; the merged result is validated as a whole.
func (l *TOMLLoader) loadConfig(path string) (*entities.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is the global or local config path
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config entities.Config
	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := validateDefined(&config, meta); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return &config, nil
}

func validateDefined(config *entities.Config, meta toml.MetaData) error {
	checks := []struct {
		section  string
		validate func() error
	}{
		{"server", config.Server.Validate},
		{"generation", config.Generation.Validate},
		{"logging", config.Logging.Validate},
		{"metrics", config.Metrics.Validate},
	}
	for _, c := range checks {
		if !meta.IsDefined(c.section) {
			continue
		}
		if err := c.validate(); err != nil {
			return fmt.Errorf("%s config: %w", c.section, err)
		}
	}
	return nil
}

var _ ports.ConfigLoader = (*TOMLLoader)(nil)
