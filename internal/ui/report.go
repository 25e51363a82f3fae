package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/exportatlas/internal/catalog"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				MarginBottom(1)

	reportSubtitleStyle = lipgloss.NewStyle().
				Foreground(ColorTag)

	reportHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	reportRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	reportHighlightStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	reportBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	successStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// PrintHeader prints a styled header for a CLI report. detail, when set,
// adds a line about the source such as a SQLite catalog's import history.
func PrintHeader(w io.Writer, source string, total int, detail string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, reportTitleStyle.Render("Data Export Catalog"))
	fmt.Fprintln(w, reportSubtitleStyle.Render(fmt.Sprintf("%d services from %s", total, source)))
	if detail != "" {
		fmt.Fprintln(w, DimStyle.Render(detail))
	}
	fmt.Fprintln(w)
}

// PrintFormatTable prints the facet list with per-format record counts.
// Rows whose format equals highlight (case-insensitive) are accented.
//
// This is a non-interactive report, so the table is built with string
// formatting and lipgloss only colors it.
func PrintFormatTable(w io.Writer, facets catalog.FacetIndex, highlight string) {
	if len(facets.Formats) == 0 {
		fmt.Fprintln(w, reportSubtitleStyle.Render("Formats: No data"))
		return
	}

	colWidths := []int{16, 9}
	for _, f := range facets.Formats {
		if len(f) > colWidths[0] {
			colWidths[0] = len(f)
		}
	}
	totalWidth := colWidths[0] + colWidths[1] + 7 // "│ " + " │ " + " │"
	separator := strings.Repeat("─", totalWidth-2)

	fmt.Fprintln(w, reportBorderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, reportHeaderStyle.Render(fmt.Sprintf("│ %-*s │ %*s │",
		colWidths[0], "Format",
		colWidths[1], "Services")))
	fmt.Fprintln(w, reportBorderStyle.Render("├"+separator+"┤"))

	for _, f := range facets.Formats {
		row := fmt.Sprintf("│ %-*s │ %*d │", colWidths[0], f, colWidths[1], facets.Counts[f])
		if highlight != "" && strings.EqualFold(f, highlight) {
			fmt.Fprintln(w, reportHighlightStyle.Render(row))
		} else {
			fmt.Fprintln(w, reportRowStyle.Render(row))
		}
	}

	fmt.Fprintln(w, reportBorderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: "+message))
}
