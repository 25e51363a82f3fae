package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// PromptForFilename asks the user for an export filename
func PromptForFilename(defaultName string) (string, error) {
	var filename string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export Filename").
				Description("Markdown file for the matching services").
				Placeholder(defaultName).
				Value(&filename),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return NormalizeExportFilename(sanitizeInput(filename), defaultName), nil
}

// NormalizeExportFilename trims name, falls back to defaultName and ensures a .md extension
func NormalizeExportFilename(name, defaultName string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		name = name + ".md"
	}
	return name
}

// ConfirmOverwrite asks before replacing an existing file
func ConfirmOverwrite(path string) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %s?", path)).
				Description("The file already exists").
				Affirmative("Yes, overwrite").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
