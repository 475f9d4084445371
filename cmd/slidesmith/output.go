package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// printResult reports where a generated deck was written
func printResult(cmd *cobra.Command, a *app, result *entities.GenerationResult) error {
	out := cmd.OutOrStdout()
	path := filepath.Join(a.config.Storage.OutputDir, result.Filename)

	if _, err := fmt.Fprintf(out, "%s (%d slides)\n", result.Message, result.SlideCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Output: %s\n", path); err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		if _, err := fmt.Fprintf(out, "Warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

// printTemplatesTable lists templates with one row per template
func printTemplatesTable(w io.Writer, templates []entities.TemplateInfo) error {
	if len(templates) == 0 {
		_, err := fmt.Fprintln(w, "No templates found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tLAYOUTS\tMODIFIED\tDESCRIPTION")
	_, _ = fmt.Fprintln(tw, "--\t-------\t--------\t-----------")

	for _, t := range templates {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			t.ID,
			len(t.Layouts),
			t.CreatedAt.Format("2006-01-02 15:04"),
			truncate(t.Description, 50),
		)
	}

	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
