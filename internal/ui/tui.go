package ui

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/models"
)

// DefaultSearchDebounce is the trailing delay before typed search text is applied
const DefaultSearchDebounce = 300 * time.Millisecond

const statusDuration = 4 * time.Second

const (
	helpBrowse = "/: search | f: format | d: deletion | c: clear | ←/→ g/G: page | v: view | r: reload | e: export | q: quit"
	helpSearch = "Enter: apply | Esc: clear search"
	helpPicker = "↑/↓: choose | Enter: apply | Esc: cancel"
)

// Message types for async operations

type servicesLoadedMsg struct {
	seq      int
	services []models.Service
	err      error
}

type searchDebounceMsg struct {
	seq int
}

// sourceChangedMsg is sent when the watched service file changes on disk
type sourceChangedMsg struct{}

// Options configures the catalog browser TUI
type Options struct {
	Source         catalog.DataSource
	PageSize       int
	SearchDebounce time.Duration
	Changes        <-chan struct{} // optional reload signals, e.g. from a source.Watcher
	SourceInfo     string          // optional summary line, e.g. a SQLite catalog's import history
	Logger         *log.Logger
}

// viewSink is the catalog.Renderer behind the TUI. It keeps the latest View
// so the value-copied Bubble Tea model always draws the current state.
type viewSink struct {
	view    catalog.View
	renders int
}

func (s *viewSink) Render(v catalog.View) {
	s.view = v
	s.renders++
}

// BrowserModel is the Bubble Tea model for the catalog browser
type BrowserModel struct {
	PageState

	browser *catalog.Browser
	sink    *viewSink
	source  catalog.DataSource
	changes <-chan struct{}
	logger  *log.Logger

	sourceInfo string

	loadSeq int
	spinner spinner.Model

	search         textinput.Model
	searching      bool
	searchSeq      int
	searchDebounce time.Duration

	formatForm   *huh.Form
	formatChoice *string

	tableMode  bool
	table      table.Model
	seenRender int

	now func() time.Time
}

// NewBrowserModel creates the model and puts the browser into Loading; the
// load itself starts from Init.
func NewBrowserModel(opts Options) BrowserModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := opts.SearchDebounce
	if debounce < 0 {
		debounce = 0
	}

	sink := &viewSink{}
	b := catalog.NewBrowser(opts.PageSize, logger)
	b.Attach(sink)

	layout := DefaultLayout()

	ti := textinput.New()
	ti.Placeholder = "name or notes"
	ti.Prompt = "Search: "
	ti.CharLimit = 128
	ti.Width = layout.InnerWidth - 12

	m := BrowserModel{
		PageState:      NewPageState(layout),
		browser:        b,
		sink:           sink,
		source:         opts.Source,
		changes:        opts.Changes,
		sourceInfo:     opts.SourceInfo,
		logger:         logger,
		spinner:        NewAppSpinner(),
		search:         ti,
		searchDebounce: debounce,
		table:          InitTable(CalculateColumns(ServiceColumns(), layout.TableWidth), nil, layout),
		now:            time.Now,
	}
	m.loadSeq = 1
	b.BeginLoad()
	return m
}

func (m BrowserModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		StandardInit(),
		m.spinner.Tick,
		loadServices(m.source, m.loadSeq),
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// loadServices runs the data source off the Update loop
func loadServices(src catalog.DataSource, seq int) tea.Cmd {
	return func() tea.Msg {
		if src == nil {
			return servicesLoadedMsg{seq: seq, err: catalog.ErrNoSource}
		}
		services, err := src.Load(context.Background())
		return servicesLoadedMsg{seq: seq, services: services, err: err}
	}
}

// waitForChange blocks until the next reload signal
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return sourceChangedMsg{}
	}
}

func searchTick(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()
	next, cmd := m.update(msg)
	next.syncTable()
	return next, cmd
}

func (m BrowserModel) update(msg tea.Msg) (BrowserModel, tea.Cmd) {
	var formCmd tea.Cmd
	if m.formatForm != nil {
		formCmd = m.updateFormatForm(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, formCmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.search.Width = m.Layout.InnerWidth - 12
			m.table.SetColumns(CalculateColumns(ServiceColumns(), m.Layout.TableWidth))
			m.table.SetHeight(m.Layout.TableHeight)
		}
		return m, formCmd

	case spinner.TickMsg:
		if m.browser.State() != catalog.StateLoading {
			return m, formCmd
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, tea.Batch(formCmd, cmd)

	case servicesLoadedMsg:
		if msg.seq != m.loadSeq {
			m.logger.Debug("dropping stale load", "seq", msg.seq, "current", m.loadSeq)
			return m, formCmd
		}
		if msg.err != nil {
			m.browser.LoadFailed(&catalog.LoadError{Source: sourceLabel(m.source), Err: msg.err})
			return m, formCmd
		}
		m.browser.Loaded(msg.services)
		return m, formCmd

	case sourceChangedMsg:
		m.SetStatus("Service file changed, reloading", statusDuration)
		return m, tea.Batch(formCmd, m.reload(), waitForChange(m.changes))

	case searchDebounceMsg:
		if msg.seq == m.searchSeq {
			m.applySearch()
		}
		return m, formCmd

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleBrowseKey(msg)
	}

	return m, formCmd
}

// reload starts a fresh load; results of older loads are dropped
func (m *BrowserModel) reload() tea.Cmd {
	m.loadSeq++
	m.browser.BeginLoad()
	return tea.Batch(m.spinner.Tick, loadServices(m.source, m.loadSeq))
}

func (m *BrowserModel) applySearch() {
	m.browser.SetSearchText(sanitizeInput(m.search.Value()))
}

func (m BrowserModel) handleSearchKey(msg tea.KeyMsg) (BrowserModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit

	case "enter":
		m.searchSeq++ // cancel any pending debounce
		m.searching = false
		m.search.Blur()
		m.applySearch()
		return m, nil

	case "esc":
		m.searchSeq++
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	if m.searchDebounce == 0 {
		m.applySearch()
		return m, cmd
	}
	return m, tea.Batch(cmd, searchTick(m.searchSeq, m.searchDebounce))
}

func (m BrowserModel) handleBrowseKey(msg tea.KeyMsg) (BrowserModel, tea.Cmd) {
	key := msg.String()
	if quit, cmd := HandleQuitKeysNoEsc(key); quit {
		m.Quitting = true
		return m, cmd
	}

	switch key {
	case "r":
		return m, m.reload()
	case "v":
		m.tableMode = !m.tableMode
		return m, nil
	}

	// Everything below needs loaded data
	if m.browser.State() != catalog.StateReady {
		return m, nil
	}

	switch key {
	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "f":
		return m, m.openFormatPicker()

	case "d":
		m.browser.SetRequireDeletion(!m.browser.Criteria().RequireDeletion)

	case "c":
		m.searchSeq++
		m.search.SetValue("")
		m.browser.ResetFilters()
		m.SetStatus("Filters cleared", statusDuration)

	case "right", "l", "pgdown":
		m.browser.NextPage()
	case "left", "h", "pgup":
		m.browser.PrevPage()
	case "g", "home":
		m.browser.FirstPage()
	case "G", "end":
		m.browser.LastPage()

	case "e":
		view := m.browser.View()
		path, err := ExportMatchesToMarkdown(m.browser.Matches(), view.Criteria, view.Total, "")
		if err != nil {
			m.logger.Error("export failed", "err", err)
			m.SetStatus("Export failed: "+err.Error(), statusDuration)
		} else {
			m.logger.Info("exported matches", "path", path)
			m.SetStatus("Exported to "+path, statusDuration)
		}

	case "o", "enter":
		if !m.tableMode {
			return m, nil
		}
		if s, ok := m.selectedService(); ok && s.ExportLink != "" {
			if err := openURL(s.ExportLink); err != nil {
				m.SetStatus("Could not open link: "+err.Error(), statusDuration)
			}
		}

	default:
		if m.tableMode {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// openFormatPicker embeds a huh Select over the facet list
func (m *BrowserModel) openFormatPicker() tea.Cmd {
	view := m.browser.View()

	choice := view.Criteria.Format
	m.formatChoice = &choice

	options := []huh.Option[string]{huh.NewOption("Any format", "")}
	for _, f := range view.Facets.Formats {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", f, view.Facets.Counts[f]), f))
	}

	m.formatForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Filter by format").
				Description(fmt.Sprintf("%d formats across %d services", len(view.Facets.Formats), view.Total)).
				Options(options...).
				Height(clamp(len(options)+2, 4, m.Layout.TableHeight)).
				Value(m.formatChoice),
		),
	).WithTheme(NewAppTheme()).
		WithShowHelp(false).
		WithWidth(m.Layout.InnerWidth)

	return m.formatForm.Init()
}

// updateFormatForm forwards msg to the open picker and applies its result
func (m *BrowserModel) updateFormatForm(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.formatForm = nil
		return nil
	}

	model, cmd := m.formatForm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.formatForm = f
	}

	switch m.formatForm.State {
	case huh.StateCompleted:
		m.browser.SetFormat(*m.formatChoice)
		m.formatForm = nil
		return nil
	case huh.StateAborted:
		m.formatForm = nil
		return nil
	}
	return cmd
}

// syncTable refreshes the table rows after the browser re-rendered
func (m *BrowserModel) syncTable() {
	if m.sink.renders == m.seenRender {
		return
	}
	m.seenRender = m.sink.renders
	m.table.SetRows(ServiceRows(m.sink.view.Page.Visible))
	m.table.GotoTop()
}

func (m BrowserModel) selectedService() (models.Service, bool) {
	visible := m.sink.view.Page.Visible
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(visible) {
		return models.Service{}, false
	}
	return visible[cursor], true
}

func (m BrowserModel) View() string {
	if m.Quitting {
		return ""
	}

	view := m.sink.view
	builder := NewPageView(m.Layout).Title("Export Atlas")

	switch view.State {
	case catalog.StateUninitialized, catalog.StateLoading:
		return builder.
			Subtitle("Data export catalog").
			Subtitle(m.sourceInfo).
			Divider().
			Spacing(1).
			Text(fmt.Sprintf("%s Loading services from %s...", m.spinner.View(), sourceLabel(m.source))).
			Status(m.StatusMsg).
			Help(m.footer(helpBrowse)).
			Build()

	case catalog.StateFailed:
		return builder.
			Subtitle("Data export catalog").
			Divider().
			Error(view.Err).
			Spacing(1).
			CustomContent(HintStyle.Render("Press r to reload.")).
			Status(m.StatusMsg).
			Help(m.footer("r: reload | q: quit")).
			Build()
	}

	builder.
		Subtitle(m.sourceInfo).
		Subtitle("Filter: " + view.Criteria.String()).
		Divider().
		QueryInfo(pageSummary(view))

	if m.searching || m.search.Value() != "" {
		builder.CustomContent(m.search.View())
	}

	if m.formatForm != nil {
		return builder.
			Spacing(1).
			CustomContent(m.formatForm.View()).
			Help(m.footer(helpPicker)).
			Build()
	}

	builder.Spacing(1)
	switch {
	case view.Page.Empty():
		builder.
			Text("No services match.").
			CustomContent(HintStyle.Render("Press c to clear filters."))
	case m.tableMode:
		builder.Table(m.table)
	default:
		builder.CustomContent(RenderCardGrid(view.Page.Visible, m.Layout))
	}

	help := helpBrowse
	if m.searching {
		help = helpSearch
	}
	return builder.
		Status(m.StatusMsg).
		Help(m.footer(help)).
		Build()
}

// footer appends the current year to the key help, trimming the help to fit
func (m BrowserModel) footer(help string) string {
	year := fmt.Sprintf(" | © %d", m.now().Year())
	return truncateToWidth(help, m.Layout.InnerWidth-StringWidth(year)) + year
}

// pageSummary renders "Page x/y | n matches of total" with paging arrows
func pageSummary(v catalog.View) string {
	pageCount := v.Page.PageCount
	if pageCount < 1 {
		pageCount = 1
	}
	var b strings.Builder
	if v.Page.HasPrev() {
		b.WriteString("← ")
	}
	b.WriteString(fmt.Sprintf("Page %d/%d | %d matches of %d", v.Page.Number, pageCount, v.Page.TotalMatches, v.Total))
	if first, last := v.Page.Range(); last > 0 {
		b.WriteString(fmt.Sprintf(" | showing %d-%d", first, last))
	}
	if v.Page.HasNext() {
		b.WriteString(" →")
	}
	return b.String()
}

// sourceLabel names a data source for messages
func sourceLabel(src catalog.DataSource) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return "data source"
}

// RunBrowser starts the catalog browser TUI
func RunBrowser(opts Options) error {
	p := tea.NewProgram(NewBrowserModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser TUI failed: %w", err)
	}
	return nil
}

// openURL opens a URL in the default browser (cross-platform)
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux, freebsd, etc.
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
