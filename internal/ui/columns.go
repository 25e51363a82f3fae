package ui

// columns.go provides column width calculation for bubbles/table.

import (
	"github.com/charmbracelet/bubbles/table"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split the space left after fixed columns by ratio.
// Each column is followed by a 2 char cell padding, which is subtracted first.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	totalWidth -= 2 * len(specs)
	if totalWidth < 40 {
		totalWidth = 40
	}

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// ServiceColumns returns column specs for the service table view.
func ServiceColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Service", FlexRatio: 25, MinWidth: 14},
		{Title: "Formats", FlexRatio: 20, MinWidth: 10},
		{Title: "Delete", FixedWidth: 6},
		{Title: "Process Time", FlexRatio: 20, MinWidth: 12},
		{Title: "Export Link", FlexRatio: 35, MinWidth: 14},
	}
}
