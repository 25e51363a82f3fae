package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/models"
)

// DefaultExportFilename returns the dated export filename used when none is given
func DefaultExportFilename(now time.Time) string {
	return fmt.Sprintf("exportatlas-%s.md", now.Format("2006-01-02"))
}

// GenerateMarkdownReport renders all matches (not just the visible page) as a
// markdown table headed by the active criteria.
func GenerateMarkdownReport(matches []models.Service, c catalog.Criteria, total int, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Data Export Catalog\n\n")
	sb.WriteString(fmt.Sprintf("**Filter:** %s\n", c.String()))
	sb.WriteString(fmt.Sprintf("**Matches:** %d of %d services\n", len(matches), total))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05")))

	if len(matches) == 0 {
		sb.WriteString("No services match.\n")
		return sb.String()
	}

	sb.WriteString("| # | Service | Formats | Deletion Required | Process Time | Export Link | Notes |\n")
	sb.WriteString("|---|---------|---------|-------------------|--------------|-------------|-------|\n")

	for i, s := range matches {
		link := "-"
		if s.ExportLink != "" {
			link = fmt.Sprintf("[%s](%s)", markdownCell(s.LinkHost()), s.ExportLink)
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
			i+1,
			markdownCell(s.Name),
			markdownCell(strings.Join(s.DisplayFormats(), ", ")),
			s.DeletionLabel(),
			markdownCell(s.DisplayProcessTime()),
			link,
			markdownCell(s.DisplayNotes()),
		))
	}

	return sb.String()
}

// ExportMatchesToMarkdown writes the report to filename, or to the dated
// default name when filename is empty. Returns the path written.
func ExportMatchesToMarkdown(matches []models.Service, c catalog.Criteria, total int, filename string) (string, error) {
	now := time.Now()
	if filename == "" {
		filename = DefaultExportFilename(now)
	}

	content := GenerateMarkdownReport(matches, c, total, now)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}
	return filename, nil
}

// markdownCell escapes text for use inside a table cell
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
