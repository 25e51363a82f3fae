package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/exportatlas/internal/models"
)

// notesLines caps how much of the notes a card shows
const notesLines = 3

// RenderCard renders one service as a bordered card of the given outer width.
func RenderCard(s models.Service, width int) string {
	inner := width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder

	name := s.Name
	if strings.TrimSpace(name) == "" {
		name = "(unnamed service)"
	}
	b.WriteString(RenderTitle(truncateToWidth(name, inner)))
	b.WriteString("\n")

	b.WriteString(renderFormatTags(s, inner))
	b.WriteString("\n\n")

	if s.DeletionRequired {
		b.WriteString(DeletionStyle.Render("Deletion required: " + s.DeletionLabel()))
	} else {
		b.WriteString(KeepStyle.Render("Deletion required: " + s.DeletionLabel()))
	}
	b.WriteString("\n")

	b.WriteString(RenderDim("Process time: "))
	b.WriteString(RenderNormal(truncateToWidth(s.DisplayProcessTime(), inner-14)))
	b.WriteString("\n")

	b.WriteString(wrapNotes(s.DisplayNotes(), inner))
	b.WriteString("\n")

	if host := s.LinkHost(); host != "" {
		b.WriteString(AccentStyle.Render(truncateToWidth("↗ "+host, inner)))
	} else {
		b.WriteString(RenderDim(models.NoLinkLabel))
	}
	if s.LastVerifiedDate != "" {
		b.WriteString("\n")
		b.WriteString(RenderDim(truncateToWidth("Verified "+s.LastVerifiedDate, inner)))
	}

	return CardStyle.Width(width - 2).Render(b.String())
}

// renderFormatTags renders the format tags, dropping ones that don't fit
func renderFormatTags(s models.Service, width int) string {
	var parts []string
	used := 0
	for _, tag := range s.DisplayFormats() {
		label := "[" + tag + "]"
		w := StringWidth(label) + 1
		if used+w > width && len(parts) > 0 {
			parts = append(parts, RenderDim("…"))
			break
		}
		if tag == models.NoFormatLabel {
			parts = append(parts, RenderDim(label))
		} else {
			parts = append(parts, TagStyle.Render(label))
		}
		used += w
	}
	return strings.Join(parts, " ")
}

// wrapNotes word-wraps notes to width and keeps at most notesLines lines
func wrapNotes(notes string, width int) string {
	wrapped := lipgloss.NewStyle().Width(width).Render(notes)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > notesLines {
		lines = lines[:notesLines]
		lines[notesLines-1] = truncateToWidth(strings.TrimRight(lines[notesLines-1], " ")+"…", width)
	}
	for i, line := range lines {
		lines[i] = HintStyle.Render(strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

// RenderCardGrid lays out the visible services in rows of layout.CardColumns.
func RenderCardGrid(services []models.Service, layout Layout) string {
	columns := layout.CardColumns
	if columns < 1 {
		columns = 1
	}
	cardWidth := layout.InnerWidth / columns

	var rows []string
	for start := 0; start < len(services); start += columns {
		end := start + columns
		if end > len(services) {
			end = len(services)
		}
		cards := make([]string, 0, columns)
		for _, s := range services[start:end] {
			cards = append(cards, RenderCard(s, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

// ServiceRows converts services into rows for the table view.
func ServiceRows(services []models.Service) []table.Row {
	rows := make([]table.Row, len(services))
	for i, s := range services {
		link := s.LinkHost()
		if link == "" {
			link = "-"
		}
		rows[i] = table.Row{
			s.Name,
			strings.Join(s.DisplayFormats(), ", "),
			s.DeletionLabel(),
			s.DisplayProcessTime(),
			link,
		}
	}
	return rows
}
