package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// page_views.go provides a fluent API for building consistent page views.

// PageViewBuilder provides a fluent API for building page views.
// It handles titles, dividers, spacing and the two-box layout.
//
// Example usage:
//
//	return NewPageView(m.Layout).
//	    Title("Export Atlas").
//	    Divider().
//	    QueryInfo("Page 1/3 | 25 matches of 40").
//	    Table(m.table).
//	    Status(m.StatusMsg).
//	    Help("←/→: page | q: quit").
//	    Build()
type PageViewBuilder struct {
	layout     Layout
	content    strings.Builder
	helpText   string
	hadContent bool
}

// NewPageView creates a new PageViewBuilder with the given layout.
func NewPageView(layout Layout) *PageViewBuilder {
	return &PageViewBuilder{
		layout: layout,
	}
}

// Title adds a title line (bold white).
func (b *PageViewBuilder) Title(title string) *PageViewBuilder {
	b.content.WriteString(RenderTitle(title))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Subtitle adds a subtitle line (dim gray).
func (b *PageViewBuilder) Subtitle(subtitle string) *PageViewBuilder {
	if subtitle == "" {
		return b
	}
	b.content.WriteString(RenderDim(subtitle))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Divider adds a full-width horizontal divider.
func (b *PageViewBuilder) Divider() *PageViewBuilder {
	b.content.WriteString(FullWidthDivider(b.layout.InnerWidth))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Spacing adds blank lines.
func (b *PageViewBuilder) Spacing(lines int) *PageViewBuilder {
	b.content.WriteString(strings.Repeat("\n", lines))
	return b
}

// QueryInfo adds query/filter information line (accented yellow).
func (b *PageViewBuilder) QueryInfo(info string) *PageViewBuilder {
	b.content.WriteString(AccentStyle.Render(info))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Text adds normal text content.
func (b *PageViewBuilder) Text(text string) *PageViewBuilder {
	b.content.WriteString(NormalStyle.Render(text))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// CustomContent adds pre-rendered content.
func (b *PageViewBuilder) CustomContent(content string) *PageViewBuilder {
	b.content.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.content.WriteString("\n")
	}
	b.hadContent = true
	return b
}

// Table adds a table with full-width selection highlighting.
func (b *PageViewBuilder) Table(t table.Model) *PageViewBuilder {
	if b.hadContent {
		b.content.WriteString("\n")
	}
	b.content.WriteString(RenderTableWithSelection(t, b.layout))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Status adds a status message (if not empty).
func (b *PageViewBuilder) Status(msg string) *PageViewBuilder {
	if msg != "" {
		if b.hadContent {
			b.content.WriteString("\n")
		}
		b.content.WriteString(StatusMsgStyle.Render(msg))
		b.content.WriteString("\n")
		b.hadContent = true
	}
	return b
}

// Error adds an error message.
func (b *PageViewBuilder) Error(err error) *PageViewBuilder {
	if err != nil {
		if b.hadContent {
			b.content.WriteString("\n")
		}
		b.content.WriteString(RenderError("Error: " + err.Error()))
		b.content.WriteString("\n")
		b.hadContent = true
	}
	return b
}

// Help sets the help text for the footer box.
func (b *PageViewBuilder) Help(helpText string) *PageViewBuilder {
	b.helpText = helpText
	return b
}

// Build constructs the final view string with two-box layout.
func (b *PageViewBuilder) Build() string {
	return BuildTwoBoxView(b.content.String(), b.helpText, b.layout)
}
