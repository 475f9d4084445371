package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "github.com/fredcamaral/slidesmith/internal/adapters/primary/http"
	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Start the HTTP API for template listing, analysis, upload,
generation, fill, download and deletion.

Example:
  slidesmith serve
  slidesmith serve --port 8080 --host 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	// Defaults are zero so config values apply unless the flag is set
	cmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	cmd.Flags().String("host", "", "Host to bind to (overrides config)")

	return cmd
}

// validateServeConfig checks the listen address after config is merged
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}
	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := validateServeConfig(a.config); err != nil {
		return err
	}

	server := httpadapter.NewServer(a.decks, a.config.Server, a.logger)
	server.SetHealthReporter(a.monitor)
	server.SetDownloadPrefix(a.config.Generation.GetDownloadPrefix())
	if a.collector != nil {
		server.SetMetrics(a.collector, a.config.Metrics.GetPath())
	}

	return startAndManageServer(cmd.Context(), cmd.OutOrStdout(), server, a)
}

// startAndManageServer runs the server until ctx is cancelled
func startAndManageServer(ctx context.Context, out io.Writer, server ports.HTTPServer, a *app) error {
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	a.logger.Info("serving",
		zap.String("addr", server.Addr()),
		zap.String("templates_dir", a.config.Storage.TemplatesDir),
		zap.String("output_dir", a.config.Storage.OutputDir),
		zap.Bool("metrics", a.collector != nil),
	)
	_, _ = fmt.Fprintf(out, "slidesmith listening on http://%s\n", server.Addr())

	<-ctx.Done()

	a.logger.Info("shutting down")
	if err := server.Stop(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
