package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/thesavant42/exportatlas/internal/ui"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
