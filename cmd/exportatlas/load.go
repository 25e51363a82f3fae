package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/source"
)

// loadCatalog loads the configured source into a headless Browser behind a
// spinner. The returned detail summarizes SQLite catalogs and is "" otherwise.
func loadCatalog(ctx context.Context, logger *log.Logger) (*catalog.Browser, string, error) {
	src, err := source.Open(cfg, logger)
	if err != nil {
		return nil, "", err
	}
	defer source.Close(src)

	b := catalog.NewBrowser(cfg.PageSize, logger)

	var loadErr error
	err = spinner.New().
		Title("Loading services from " + cfg.Source + "...").
		Context(ctx).
		Action(func() {
			loadErr = b.Load(ctx, src)
		}).
		Run()

	if err != nil {
		return nil, "", fmt.Errorf("spinner error: %w", err)
	}
	if loadErr != nil {
		return nil, "", loadErr
	}

	detail, err := source.Describe(src)
	if err != nil {
		logger.Warn("failed to describe source", "source", cfg.Source, "err", err)
	}
	return b, detail, nil
}
