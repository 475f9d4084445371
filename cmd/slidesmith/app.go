package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fredcamaral/slidesmith/internal/adapters/secondary/config"
	"github.com/fredcamaral/slidesmith/internal/adapters/secondary/logging"
	"github.com/fredcamaral/slidesmith/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/slidesmith/internal/adapters/secondary/parser"
	"github.com/fredcamaral/slidesmith/internal/adapters/secondary/pptx"
	"github.com/fredcamaral/slidesmith/internal/adapters/secondary/storage"
	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
	"github.com/fredcamaral/slidesmith/internal/domain/services"
)

// app holds the wired components shared by every command
type app struct {
	config    *entities.Config
	logger    *zap.Logger
	decks     *services.DeckService
	requests  ports.RequestDecoder
	monitor   *monitoring.PerformanceMonitor
	collector *monitoring.Collector
}

// stringFlags and boolFlags map CLI flags onto config overrides
var (
	stringFlags = []string{"host", "templates-dir", "output-dir", "log-level"}
	boolFlags   = []string{"log-json"}
)

// collectFlags returns only the flags the user actually set
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()

	for _, name := range stringFlags {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if v, err := fs.GetString(name); err == nil {
				flags[name] = v
			}
		}
	}
	for _, name := range boolFlags {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if v, err := fs.GetBool(name); err == nil {
				flags[name] = v
			}
		}
	}
	if f := fs.Lookup("port"); f != nil && f.Changed {
		if v, err := fs.GetInt("port"); err == nil {
			flags["port"] = v
		}
	}

	return flags
}

// loadConfig resolves defaults, global and local files, environment and flags
func loadConfig(cmd *cobra.Command) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewTOMLLoaderWithGlobal(path)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	svc := services.NewConfigService(loader, config.NewConfigMerger())
	cfg, err := svc.LoadConfig(cmd.Context(), workingDir, collectFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newApp loads configuration and wires storage, engine, metrics and services
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	fsys := ports.NewRealFileSystem()
	templates := storage.NewFileTemplateStore(cfg.Storage.TemplatesDir, fsys, logger)
	outputs := storage.NewFileOutputStore(cfg.Storage.OutputDir, fsys, logger)

	a := &app{
		config:   cfg,
		logger:   logger,
		monitor:  monitoring.NewPerformanceMonitor(monitoring.DefaultHealthThresholds()),
		requests: parser.NewFileRequestDecoder(parser.NewDeckAdapter(parser.NewGoldmarkParser())),
	}

	metrics := monitoring.Fanout{a.monitor}
	if cfg.Metrics.IsEnabled() {
		a.collector = monitoring.NewCollector(cfg.Metrics.GetNamespace())
		metrics = append(metrics, a.collector)
	}

	a.decks = services.NewDeckService(
		pptx.NewEngineWithLimit(cfg.Generation.GetMaxPackageBytes()),
		templates,
		outputs,
		metrics,
		logger,
		services.DeckOptionsFromConfig(cfg.Generation),
	)

	return a, nil
}

// close flushes buffered log entries
func (a *app) close() {
	_ = a.logger.Sync()
}
