package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/thesavant42/exportatlas/internal/ui"
)

// formatsCmd prints the facet list with per-format counts
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the export formats in the catalog with service counts.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := newLogger(false)
		if err != nil {
			return err
		}
		defer closeLog()

		b, detail, err := loadCatalog(cmd.Context(), logger)
		if err != nil {
			return err
		}

		view := b.View()
		highlight, _ := cmd.Flags().GetString("highlight")

		ui.PrintHeader(os.Stdout, cfg.Source, view.Total, detail)
		ui.PrintFormatTable(os.Stdout, view.Facets, highlight)
		return nil
	},
}

func init() {
	formatsCmd.Flags().String("highlight", "", "accent this format in the table")
	rootCmd.AddCommand(formatsCmd)
}
