package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write your study history and stats to a shareable file",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildExport(cmd)
		if err != nil {
			return err
		}

		format := exportFormat
		if format == "" {
			format = cfg.DefaultFormat
		}
		if format != "markdown" && format != "json" {
			return fmt.Errorf("unknown format %q (want markdown or json)", format)
		}

		data, err := export.RendererFor(format).Render(e)
		if err != nil {
			return fmt.Errorf("render export: %w", err)
		}

		outputDir := cfg.OutputDir
		if outputDir == "" {
			outputDir = "."
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		outputPath := filepath.Join(outputDir, export.Filename(e, format))
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Export written: %s\n", outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: markdown or json (overrides config)")
	rootCmd.AddCommand(exportCmd)
}
