package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/models"
)

type staticSource []models.Service

func (s staticSource) Load(ctx context.Context) ([]models.Service, error) {
	return s, nil
}

func (s staticSource) String() string {
	return "static"
}

func testServices(n int) []models.Service {
	services := make([]models.Service, n)
	for i := range services {
		services[i] = models.Service{
			Name:    fmt.Sprintf("service-%02d", i+1),
			Formats: []string{"csv"},
		}
	}
	services[0].Formats = []string{"JSON"}
	services[0].DeletionRequired = true
	return services
}

// keyMsg builds a key press from its string form
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func send(t *testing.T, m BrowserModel, msgs ...tea.Msg) BrowserModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(BrowserModel); !ok {
			t.Fatalf("Update() returned %T, want BrowserModel", next)
		}
	}
	return m
}

func press(t *testing.T, m BrowserModel, keys ...string) BrowserModel {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

// runCmd runs cmd and reports its message, giving up on commands that block
// longer than a frame (ticks, cursor blinks).
func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	select {
	case msg := <-result:
		return msg, true
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}

// pressAndSettle sends each key and feeds the resulting commands back
// through Update until none are left.
func pressAndSettle(t *testing.T, m BrowserModel, keys ...string) BrowserModel {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = next.(BrowserModel)

		queue := []tea.Cmd{cmd}
		for steps := 0; len(queue) > 0; steps++ {
			if steps > 100 {
				t.Fatalf("commands did not settle after key %q", k)
			}
			c := queue[0]
			queue = queue[1:]
			if c == nil {
				continue
			}
			msg, ok := runCmd(c)
			if !ok || msg == nil {
				continue
			}
			if batch, isBatch := msg.(tea.BatchMsg); isBatch {
				queue = append(queue, batch...)
				continue
			}
			next, cmd := m.Update(msg)
			m = next.(BrowserModel)
			queue = append(queue, cmd)
		}
	}
	return m
}

func loadedModel(t *testing.T, services []models.Service, pageSize int) BrowserModel {
	t.Helper()
	m := NewBrowserModel(Options{
		Source:         staticSource(services),
		PageSize:       pageSize,
		SearchDebounce: DefaultSearchDebounce,
	})
	m.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return send(t, m, servicesLoadedMsg{seq: 1, services: services})
}

func TestBrowserModelStartsLoading(t *testing.T) {
	m := NewBrowserModel(Options{Source: staticSource(nil)})
	if got := m.sink.view.State; got != catalog.StateLoading {
		t.Fatalf("initial state = %v, want loading", got)
	}
	if !strings.Contains(m.View(), "Loading services from static") {
		t.Error("loading view should name the source")
	}
}

func TestBrowserModelLoaded(t *testing.T) {
	m := loadedModel(t, testServices(5), 2)

	v := m.sink.view
	if v.State != catalog.StateReady {
		t.Fatalf("state = %v, want ready", v.State)
	}
	if v.Page.PageCount != 3 || len(v.Page.Visible) != 2 {
		t.Errorf("page = %d pages, %d visible; want 3 pages, 2 visible", v.Page.PageCount, len(v.Page.Visible))
	}
	if len(m.table.Rows()) != 2 {
		t.Errorf("table rows = %d, want 2", len(m.table.Rows()))
	}

	out := m.View()
	for _, want := range []string{"Page 1/3 | 5 matches of 5", "service-01", "[JSON]", "© 2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestBrowserModelIgnoresStaleLoad(t *testing.T) {
	m := NewBrowserModel(Options{Source: staticSource(nil)})
	m = send(t, m, servicesLoadedMsg{seq: 0, services: testServices(3)})
	if got := m.sink.view.State; got != catalog.StateLoading {
		t.Errorf("state after stale load = %v, want loading", got)
	}
}

func TestBrowserModelLoadFailure(t *testing.T) {
	m := NewBrowserModel(Options{Source: staticSource(nil)})
	m = send(t, m, servicesLoadedMsg{seq: 1, err: errors.New("HTTP error! status: 500")})

	v := m.sink.view
	if v.State != catalog.StateFailed {
		t.Fatalf("state = %v, want failed", v.State)
	}
	var loadErr *catalog.LoadError
	if !errors.As(v.Err, &loadErr) || loadErr.Source != "static" {
		t.Errorf("Err = %v, want LoadError from static", v.Err)
	}
	out := m.View()
	if !strings.Contains(out, "status: 500") || !strings.Contains(out, "Press r to reload") {
		t.Errorf("failed view missing error or reload hint:\n%s", out)
	}

	// Reload goes back to loading with a new sequence
	m = press(t, m, "r")
	if m.sink.view.State != catalog.StateLoading || m.loadSeq != 2 {
		t.Errorf("after reload: state %v seq %d, want loading seq 2", m.sink.view.State, m.loadSeq)
	}
}

func TestBrowserModelPagingKeys(t *testing.T) {
	m := loadedModel(t, testServices(5), 2)

	m = press(t, m, "right")
	if got := m.sink.view.Page.Number; got != 2 {
		t.Errorf("after right: page %d, want 2", got)
	}
	m = press(t, m, "G")
	if got := m.sink.view.Page.Number; got != 3 {
		t.Errorf("after G: page %d, want 3", got)
	}
	m = press(t, m, "l")
	if got := m.sink.view.Page.Number; got != 3 {
		t.Errorf("next past the end: page %d, want 3", got)
	}
	m = press(t, m, "h", "g")
	if got := m.sink.view.Page.Number; got != 1 {
		t.Errorf("after h, g: page %d, want 1", got)
	}
}

func TestBrowserModelSearchDebounce(t *testing.T) {
	m := loadedModel(t, testServices(12), 12)

	m = press(t, m, "/", "0", "1")
	if !m.searching {
		t.Fatal("search mode not entered")
	}
	if got := m.browser.Criteria().SearchText; got != "" {
		t.Fatalf("search applied before debounce fired: %q", got)
	}

	// An older tick is superseded by the later keystroke
	m = send(t, m, searchDebounceMsg{seq: m.searchSeq - 1})
	if got := m.browser.Criteria().SearchText; got != "" {
		t.Errorf("stale debounce applied search %q", got)
	}

	m = send(t, m, searchDebounceMsg{seq: m.searchSeq})
	if got := m.browser.Criteria().SearchText; got != "01" {
		t.Errorf("search = %q, want %q", got, "01")
	}
	// service-01 is the only name containing "01"
	if got := m.sink.view.Page.TotalMatches; got != 1 {
		t.Errorf("matches = %d, want 1", got)
	}
}

func TestBrowserModelSearchEnterAppliesImmediately(t *testing.T) {
	m := loadedModel(t, testServices(12), 12)

	m = press(t, m, "/", "1", "enter")
	if m.searching {
		t.Error("enter should leave search mode")
	}
	if got := m.browser.Criteria().SearchText; got != "1" {
		t.Errorf("search = %q, want %q", got, "1")
	}

	m = press(t, m, "/", "esc")
	if got := m.browser.Criteria().SearchText; got != "" {
		t.Errorf("esc should clear search, got %q", got)
	}
}

func TestBrowserModelFilterKeys(t *testing.T) {
	m := loadedModel(t, testServices(6), 4)

	m = press(t, m, "right", "d")
	v := m.sink.view
	if !v.Criteria.RequireDeletion || v.Page.TotalMatches != 1 || v.Page.Number != 1 {
		t.Errorf("after d: criteria %v, %d matches, page %d", v.Criteria, v.Page.TotalMatches, v.Page.Number)
	}

	m = press(t, m, "c")
	v = m.sink.view
	if !v.Criteria.IsDefault() || v.Page.TotalMatches != 6 {
		t.Errorf("after c: criteria %v, %d matches", v.Criteria, v.Page.TotalMatches)
	}
}

func TestBrowserModelEmptyState(t *testing.T) {
	m := loadedModel(t, []models.Service{{Name: "Alpha"}}, 12)
	m = press(t, m, "d")

	if !strings.Contains(m.View(), "No services match.") {
		t.Error("empty match set should show the empty state")
	}
}

func TestBrowserModelFormatPickerOpensAndCancels(t *testing.T) {
	m := loadedModel(t, testServices(3), 12)

	m = press(t, m, "f")
	if m.formatForm == nil {
		t.Fatal("format picker not opened")
	}
	if m.formatChoice == nil || *m.formatChoice != "" {
		t.Error("picker should start on the current format")
	}

	m = press(t, m, "esc")
	if m.formatForm != nil {
		t.Error("esc should close the picker")
	}
	if got := m.browser.Criteria().Format; got != "" {
		t.Errorf("cancelled picker changed format to %q", got)
	}
}

func TestBrowserModelFormatPickerApplies(t *testing.T) {
	// service-01 is JSON, the rest CSV; options are Any, CSV, JSON
	m := loadedModel(t, testServices(3), 12)

	m = pressAndSettle(t, m, "f", "down", "enter")

	if m.formatForm != nil {
		t.Error("picker should close after a choice")
	}
	if got := m.browser.Criteria().Format; got != "CSV" {
		t.Fatalf("format = %q, want CSV", got)
	}
	v := m.sink.view
	if v.Page.Number != 1 || len(v.Page.Visible) != 2 {
		t.Errorf("page %d shows %d services, want page 1 with 2", v.Page.Number, len(v.Page.Visible))
	}
	for _, s := range v.Page.Visible {
		if s.Formats[0] != "csv" {
			t.Errorf("%s has formats %v, want csv only", s.Name, s.Formats)
		}
	}
	if !strings.Contains(m.View(), "format=CSV") {
		t.Errorf("subtitle should show the format filter:\n%s", m.View())
	}
}

func TestBrowserModelShowsSourceInfo(t *testing.T) {
	info := "3 services, imported from services.json at 2026-01-02T03:04:05Z"
	m := NewBrowserModel(Options{Source: staticSource(nil), SourceInfo: info})
	if !strings.Contains(m.View(), info) {
		t.Error("loading view should show the source info")
	}

	m = send(t, m, servicesLoadedMsg{seq: 1, services: testServices(3)})
	if !strings.Contains(m.View(), info) {
		t.Error("loaded view should show the source info")
	}
}

func TestBrowserModelSourceChangedReloads(t *testing.T) {
	m := loadedModel(t, testServices(3), 12)
	m.changes = make(chan struct{})

	m = send(t, m, sourceChangedMsg{})
	if m.sink.view.State != catalog.StateLoading {
		t.Errorf("state = %v, want loading", m.sink.view.State)
	}
	if !strings.Contains(m.StatusMsg, "reloading") {
		t.Errorf("status = %q", m.StatusMsg)
	}

	m = send(t, m, servicesLoadedMsg{seq: m.loadSeq, services: testServices(4)})
	if got := m.sink.view.Total; got != 4 {
		t.Errorf("total after reload = %d, want 4", got)
	}
}

func TestBrowserModelTableToggle(t *testing.T) {
	m := loadedModel(t, testServices(3), 12)
	m = press(t, m, "v")
	if !m.tableMode {
		t.Fatal("v should switch to table view")
	}
	if !strings.Contains(m.View(), "Process Time") {
		t.Error("table header not rendered")
	}
}

func TestBrowserModelQuit(t *testing.T) {
	m := loadedModel(t, testServices(1), 12)
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if !next.(BrowserModel).Quitting {
		t.Error("q should set Quitting")
	}
}
