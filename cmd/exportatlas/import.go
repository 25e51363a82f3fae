package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thesavant42/exportatlas/internal/db"
	"github.com/thesavant42/exportatlas/internal/models"
	"github.com/thesavant42/exportatlas/internal/source"
	"github.com/thesavant42/exportatlas/internal/ui"
)

const defaultCatalogDB = "data/catalog.db"

// importCmd converts a JSON service list into a SQLite catalog file
var importCmd = &cobra.Command{
	Use:   "import <services.json>",
	Short: "Import a JSON service list into a SQLite catalog file.",
	Long: `Import a JSON service list into a SQLite catalog file.

The catalog's previous contents are replaced. Point --source at the .db file
to browse it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		jsonPath := args[0]

		logger, closeLog, err := newLogger(false)
		if err != nil {
			return err
		}
		defer closeLog()

		var services []models.Service
		var importErr error
		err = ui.RunWithSpinner("Importing "+jsonPath+"...", func() {
			services, importErr = source.NewFile(jsonPath).Load(cmd.Context())
			if importErr != nil {
				return
			}

			database, err := db.New(dbPath)
			if err != nil {
				importErr = err
				return
			}
			defer database.Close()

			importErr = database.ReplaceServices(services, jsonPath)
		})
		if err != nil {
			return err
		}
		if importErr != nil {
			return fmt.Errorf("import failed: %w", importErr)
		}

		logger.Info("imported services", "from", jsonPath, "to", dbPath, "count", len(services))
		ui.PrintSuccess(os.Stdout, fmt.Sprintf("Imported %d services into %s", len(services), dbPath))
		return nil
	},
}

func init() {
	importCmd.Flags().String("db", defaultCatalogDB, "SQLite catalog file to write")
	rootCmd.AddCommand(importCmd)
}
