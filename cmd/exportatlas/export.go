package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/ui"
)

// exportCmd runs the filter pipeline headlessly and writes every match as Markdown
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the services matching a filter to a Markdown file.",
	Long: `Write the services matching a filter to a Markdown file.

All matches are written, not just one page. Without --output you are asked
for a filename.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		format, _ := cmd.Flags().GetString("format")
		deletion, _ := cmd.Flags().GetBool("deletion")
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		logger, closeLog, err := newLogger(false)
		if err != nil {
			return err
		}
		defer closeLog()

		b, _, err := loadCatalog(cmd.Context(), logger)
		if err != nil {
			return err
		}
		b.SetCriteria(catalog.NewCriteria(search, format, deletion))

		defaultName := ui.DefaultExportFilename(time.Now())
		if output == "" {
			if output, err = ui.PromptForFilename(defaultName); err != nil {
				return err
			}
		} else {
			output = ui.NormalizeExportFilename(output, defaultName)
		}

		if _, err := os.Stat(output); err == nil && !force {
			ok, err := ui.ConfirmOverwrite(output)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("export cancelled")
			}
		}

		view := b.View()
		matches := b.Matches()
		path, err := ui.ExportMatchesToMarkdown(matches, view.Criteria, view.Total, output)
		if err != nil {
			return err
		}

		logger.Info("exported matches", "path", path, "matches", len(matches), "criteria", view.Criteria.String())
		ui.PrintSuccess(os.Stdout, fmt.Sprintf("Exported %d of %d services to %s", len(matches), view.Total, path))
		return nil
	},
}

func init() {
	flags := exportCmd.Flags()
	flags.String("search", "", "case-insensitive text matched against name and notes")
	flags.String("format", "", "only services offering this export format")
	flags.Bool("deletion", false, "only services that require account deletion")
	flags.StringP("output", "o", "", "markdown file to write")
	flags.BoolP("force", "f", false, "overwrite an existing file without asking")
	rootCmd.AddCommand(exportCmd)
}
