package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/models"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantWidth     int
		wantColumns   int
	}{
		{"unknown size", 0, 0, DefaultWidth, 2},
		{"narrow terminal clamps up", 40, 30, MinViewportWidth, 1},
		{"wide terminal clamps down", 300, 60, MaxViewportWidth, 3},
		{"medium", 100, 30, 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.width, tt.height)
			if l.ViewportWidth != tt.wantWidth {
				t.Errorf("ViewportWidth = %d, want %d", l.ViewportWidth, tt.wantWidth)
			}
			if l.InnerWidth != l.ViewportWidth-2 {
				t.Errorf("InnerWidth = %d, want %d", l.InnerWidth, l.ViewportWidth-2)
			}
			if l.CardColumns != tt.wantColumns {
				t.Errorf("CardColumns = %d, want %d", l.CardColumns, tt.wantColumns)
			}
			if l.TableHeight < 5 {
				t.Errorf("TableHeight = %d, want >= 5", l.TableHeight)
			}
		})
	}
}

func TestCalculateColumns(t *testing.T) {
	columns := CalculateColumns(ServiceColumns(), 106)
	if len(columns) != 5 {
		t.Fatalf("got %d columns, want 5", len(columns))
	}
	if columns[2].Title != "Delete" || columns[2].Width != 6 {
		t.Errorf("fixed column = %+v, want Delete/6", columns[2])
	}
	for _, c := range columns {
		if c.Width <= 0 {
			t.Errorf("column %q has width %d", c.Title, c.Width)
		}
	}
}

func TestRenderCardDefaults(t *testing.T) {
	card := RenderCard(models.Service{Name: "Alpha"}, 40)

	for _, want := range []string{
		"Alpha",
		"[" + models.NoFormatLabel + "]",
		"Deletion required: No",
		models.DefaultProcessTime,
		models.NoLinkLabel,
	} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
}

func TestRenderCardFields(t *testing.T) {
	s := models.Service{
		Name:             "Google",
		Formats:          []string{"json", "html"},
		DeletionRequired: true,
		ProcessTime:      "Hours to days",
		Notes:            "Use Takeout.",
		ExportLink:       "https://takeout.google.com/settings/takeout",
		LastVerifiedDate: "2025-05-01",
	}
	card := RenderCard(s, 50)

	for _, want := range []string{"[JSON]", "[HTML]", "Deletion required: Yes", "Hours to days", "Use Takeout.", "google.com", "Verified 2025-05-01"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
}

func TestRenderCardGridRows(t *testing.T) {
	layout := NewLayout(130, 40)
	services := []models.Service{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}

	grid := RenderCardGrid(services, layout)
	for _, name := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(grid, name) {
			t.Errorf("grid missing %q", name)
		}
	}
	if w := StringWidth(strings.Split(grid, "\n")[0]); w > layout.InnerWidth {
		t.Errorf("grid row width %d exceeds inner width %d", w, layout.InnerWidth)
	}
}

func TestServiceRows(t *testing.T) {
	rows := ServiceRows([]models.Service{
		{Name: "Alpha", Formats: []string{"csv", "json"}, DeletionRequired: true, ExportLink: "https://www.bbc.co.uk/account"},
		{Name: "Beta"},
	})

	if got := rows[0][1]; got != "CSV, JSON" {
		t.Errorf("formats cell = %q", got)
	}
	if got := rows[0][4]; got != "bbc.co.uk" {
		t.Errorf("link cell = %q", got)
	}
	if got := rows[1][4]; got != "-" {
		t.Errorf("missing link cell = %q, want -", got)
	}
}

func TestGenerateMarkdownReport(t *testing.T) {
	matches := []models.Service{
		{Name: "Pipe | Co", Formats: []string{"csv"}, Notes: "line one\nline two", ExportLink: "https://example.com/x"},
	}
	c := catalog.NewCriteria("pipe", "", false)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	report := GenerateMarkdownReport(matches, c, 10, now)

	for _, want := range []string{
		"**Filter:** " + c.String(),
		"**Matches:** 1 of 10 services",
		`Pipe \| Co`,
		"line one line two",
		"[example.com](https://example.com/x)",
		"2026-01-02 03:04:05",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestGenerateMarkdownReportEmpty(t *testing.T) {
	report := GenerateMarkdownReport(nil, catalog.DefaultCriteria(), 3, time.Now())
	if !strings.Contains(report, "No services match.") {
		t.Errorf("empty report = %q", report)
	}
}

func TestExportMatchesToMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	got, err := ExportMatchesToMarkdown([]models.Service{{Name: "Alpha"}}, catalog.DefaultCriteria(), 1, path)
	if err != nil {
		t.Fatalf("ExportMatchesToMarkdown() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "| 1 | Alpha |") {
		t.Errorf("export content missing row:\n%s", data)
	}
}

func TestNormalizeExportFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "default.md"},
		{"  report ", "report.md"},
		{"REPORT.MD", "REPORT.MD"},
	}
	for _, tt := range tests {
		if got := NormalizeExportFilename(tt.in, "default.md"); got != tt.want {
			t.Errorf("NormalizeExportFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("goo\x00gle\x07"); got != "google" {
		t.Errorf("sanitizeInput() = %q, want %q", got, "google")
	}
}

func TestPrintFormatTable(t *testing.T) {
	var b strings.Builder
	facets := catalog.NewFacetIndex([]models.Service{
		{Formats: []string{"csv", "json"}},
		{Formats: []string{"CSV"}},
	})

	PrintFormatTable(&b, facets, "json")

	out := b.String()
	if !strings.Contains(out, "CSV") || !strings.Contains(out, "JSON") {
		t.Fatalf("table missing formats:\n%s", out)
	}
	csvLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "CSV") {
			csvLine = line
		}
	}
	if !strings.Contains(csvLine, " 2 ") {
		t.Errorf("CSV row should count 2 services: %q", csvLine)
	}
}

func TestPrintHeaderDetail(t *testing.T) {
	var b strings.Builder
	PrintHeader(&b, "data/catalog.db", 2, "2 services, imported from services.json at 2026-01-02T03:04:05Z")

	out := b.String()
	for _, want := range []string{"2 services from data/catalog.db", "imported from services.json at 2026-01-02T03:04:05Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}

	b.Reset()
	PrintHeader(&b, "data/services.json", 2, "")
	if strings.Contains(b.String(), "imported") {
		t.Errorf("header without detail = %q", b.String())
	}
}
