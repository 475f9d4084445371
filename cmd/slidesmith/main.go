package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slidesmith",
		Short: "Generate PowerPoint decks from templates and structured content",
		Long: `slidesmith fills PowerPoint templates with structured content.
It generates new decks from content blocks or markdown, fills the
existing slides of a template in place, describes template structure,
and serves all of it over HTTP.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Global config file (default: ~/.config/slidesmith/config.toml)")
	flags.String("templates-dir", "", "Template directory (overrides config)")
	flags.String("output-dir", "", "Output directory (overrides config)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.Bool("log-json", false, "Log in JSON format (overrides config)")

	rootCmd.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newFillCmd(),
		newAnalyzeCmd(),
		newTemplatesCmd(),
	)

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
