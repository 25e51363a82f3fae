package ui

// view_helpers.go provides common View() rendering helpers.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// RenderTableWithSelection renders a bubbles table with full-width selection highlight.
// The table's Selected style should stay neutral (see ApplyTableStyles).
//
// bubbles/table View() output:
//   - Line 0: header row
//   - Line 1+: visible data rows only
//
// The visible cursor row is recomputed from the table height so scrolling
// matches the table's own viewport.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	lines := strings.Split(t.View(), "\n")
	result := make([]string, 0, len(lines)+1)

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		if maxStart := totalRows - height; start > maxStart {
			start = maxStart
		}
	}
	visibleCursorIndex := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(layout.InnerWidth))
			continue
		}

		// Strip escape codes first so embedded resets don't kill the background
		if i-1 == visibleCursorIndex && totalRows > 0 {
			result = append(result, RenderSelectedWidth(stripEscapeCodes(line), layout.InnerWidth))
			continue
		}
		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// CenterText centers text within given width.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
