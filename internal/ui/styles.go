package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 72
	MaxViewportWidth  = 140
	MinViewportHeight = 20
	DefaultWidth      = 110 // Used when terminal size is unknown
	DefaultHeight     = 36

	// rows used by header, dividers, status and the help box
	chromeHeight = 12
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // clamped terminal height
	InnerWidth     int // ViewportWidth - 2 (exact width for content inside borders)
	TableWidth     int // sum of column widths + separators
	TableHeight    int // visible table rows
	CardColumns    int // cards per row in the card grid
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	if terminalWidth <= 0 {
		terminalWidth = DefaultWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	height := clamp(terminalHeight, MinViewportHeight, terminalHeight)

	columns := 3
	switch {
	case width < 90:
		columns = 1
	case width < 120:
		columns = 2
	}

	return Layout{
		ViewportWidth:  width,
		ViewportHeight: height,
		InnerWidth:     width - 2,
		TableWidth:     width - 4,
		TableHeight:    clamp(height-chromeHeight, 5, 40),
		CardColumns:    columns,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorAccentDim = lipgloss.Color("220") // yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorSuccess   = lipgloss.Color("42")  // green
	ColorTag       = lipgloss.Color("86")  // cyan
)

// Common styles - reusable style definitions
var (
	// Border style for main viewport.
	// Always use .Width(InnerWidth) with NO .Padding() so the border adds
	// exactly two columns.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Help box below the main viewport
	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	// Format tag pill on a card
	TagStyle = lipgloss.NewStyle().
			Foreground(ColorTag).
			Bold(true)

	// Deletion badge on a card
	DeletionStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	KeepStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorTextDim).
			Padding(0, 1)
)

// RenderTitle renders a bold white title
func RenderTitle(s string) string {
	return TitleStyle.Render(s)
}

// RenderDim renders gray secondary text
func RenderDim(s string) string {
	return DimStyle.Render(s)
}

// RenderNormal renders plain white text
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// RenderError renders an error line
func RenderError(s string) string {
	return ErrorStyle.Render(s)
}

// RenderSelectedWidth renders s highlighted and padded to width
func RenderSelectedWidth(s string, width int) string {
	return SelectedStyle.Render(padRight(s, width))
}

// StringWidth returns the display width of s, ignoring ANSI escape codes
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// stripEscapeCodes removes ANSI escape sequences from s
func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

// truncateToWidth cuts s to width display columns, adding an ellipsis
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func padRight(s string, width int) string {
	w := StringWidth(s)
	if w >= width {
		return truncateToWidth(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// PadContentToHeight pads content with newlines to fill target height
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= targetHeight {
		return content
	}
	return content + strings.Repeat("\n", targetHeight-lines)
}

// clipToHeight drops lines past maxLines so the help box stays on screen
func clipToHeight(content string, maxLines int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

// BuildTwoBoxView renders content in the red main box and the help text
// centered in a one-row box below it.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	mainHeight := layout.ViewportHeight - 5 // help box (3) + main border (2)
	if mainHeight < 1 {
		mainHeight = 1
	}
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(PadContentToHeight(clipToHeight(strings.TrimRight(content, "\n"), mainHeight), mainHeight))

	help := HelpBoxStyle.
		Width(layout.InnerWidth).
		Render(CenterText(HintStyle.Render(truncateToWidth(helpText, layout.InnerWidth)), layout.InnerWidth))

	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// ApplyTableStyles applies the app table look. The bubbles Selected style is
// left neutral; RenderTableWithSelection draws the visible highlight.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorTextDim).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	s.Cell = s.Cell.Foreground(ColorText)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
}

// NewAppSpinner returns the white dot spinner used across the app
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(ColorBorder).
		SetString("> ")

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
