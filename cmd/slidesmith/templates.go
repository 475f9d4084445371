package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage stored templates",
	}

	cmd.AddCommand(newTemplatesListCmd(), newTemplatesUploadCmd())
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE:  runTemplatesList,
	}

	cmd.Flags().String("format", "table", "Output format (table, json)")
	return cmd
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q (use table or json)", format)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	templates, err := a.decks.ListTemplates(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing templates: %w", err)
	}

	if format == "json" {
		return writeJSON(cmd.OutOrStdout(), templates)
	}
	return printTemplatesTable(cmd.OutOrStdout(), templates)
}

func newTemplatesUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Validate and store a .pptx template",
		Long: `Validate a .pptx file and copy it into the template directory.
The template id defaults to the file name without extension.

Example:
  slidesmith templates upload corporate.pptx
  slidesmith templates upload deck.pptx --id corporate-2025`,
		Args: cobra.ExactArgs(1),
		RunE: runTemplatesUpload,
	}

	cmd.Flags().String("id", "", "Template id (default: file name without extension)")
	cmd.Flags().String("description", "", "Template description")
	return cmd
}

func runTemplatesUpload(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, _ := cmd.Flags().GetString("id")
	description, _ := cmd.Flags().GetString("description")

	result, err := a.decks.UploadTemplate(cmd.Context(), &entities.TemplateUpload{
		Filename:    filepath.Base(args[0]),
		TemplateID:  id,
		Description: description,
		Data:        data,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d layouts)\n", result.Message, result.TemplateID, len(result.Layouts))
	return err
}
