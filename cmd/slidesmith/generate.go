package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <request>",
		Short: "Generate a new deck from a request file",
		Long: `Generate a presentation from a JSON, YAML or markdown request file.

Markdown decks separate slides with "---" lines. Frontmatter may set
template, output, author, title and subject. "Note:" lines become
speaker notes and <!-- layout: N --> picks the slide layout.

Example:
  slidesmith generate request.json
  slidesmith generate deck.md --template corporate --output q3.pptx`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringP("template", "t", "", "Template id (overrides the request)")
	cmd.Flags().StringP("output", "o", "", "Output filename (overrides the request)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	req, err := a.requests.DecodeGenerate(cmd.Context(), args[0], data)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("template"); v != "" {
		req.TemplateID = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		req.OutputFilename = v
	}

	result, err := a.decks.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printResult(cmd, a, result)
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <template-id> <request>",
		Short: "Fill a template's existing slides in place",
		Long: `Fill the slides a template already contains from a JSON or YAML
request. Slide i of the request fills slide i of the template.

Example:
  slidesmith fill corporate fill.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: runFill,
	}

	cmd.Flags().StringP("output", "o", "", "Output filename (overrides the request)")

	return cmd
}

func runFill(cmd *cobra.Command, args []string) error {
	templateID, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	req, err := a.requests.DecodeFill(cmd.Context(), path, data)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		req.OutputFilename = v
	}

	result, err := a.decks.Fill(cmd.Context(), templateID, req)
	if err != nil {
		return err
	}
	return printResult(cmd, a, result)
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <template-id>",
		Short: "Describe a template's layouts, placeholders and slides as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			desc, err := a.decks.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), desc)
		},
	}
}
