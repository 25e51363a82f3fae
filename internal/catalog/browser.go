package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/exportatlas/internal/models"
)

// State is the load lifecycle of a Browser
type State int

const (
	StateUninitialized State = iota // Nothing requested yet
	StateLoading                    // Waiting on the DataSource
	StateReady                      // Records loaded, view is live
	StateFailed                     // Last load failed, view is empty
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DataSource delivers the full record set in one call.
type DataSource interface {
	Load(ctx context.Context) ([]models.Service, error)
}

// Renderer consumes every recomputed View.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(View)

// Render calls f(v).
func (f RendererFunc) Render(v View) {
	f(v)
}

// View is the snapshot handed to renderers after each state change.
type View struct {
	State    State
	Page     Page
	Total    int // size of the full record set
	Facets   FacetIndex
	Criteria Criteria
	Err      error // set only in StateFailed
}

// Browser owns the loaded records, the active criteria and the current page.
// It is mutated only through its methods and recomputes the visible page
// synchronously (Filter, then Paginate) after every change.
//
// A Browser is not safe for concurrent use; drive it from a single goroutine
// such as a Bubble Tea Update loop.
type Browser struct {
	pageSize  int
	logger    *log.Logger
	renderers []Renderer

	state    State
	records  []models.Service
	facets   FacetIndex
	criteria Criteria
	page     int
	current  Page
	err      error
}

// NewBrowser creates a Browser in StateUninitialized.
// A nil logger discards log output; pageSize <= 0 uses DefaultPageSize.
func NewBrowser(pageSize int, logger *log.Logger) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Browser{
		pageSize: pageSize,
		logger:   logger,
		page:     1,
		current:  Paginate(nil, pageSize, 1),
		facets:   NewFacetIndex(nil),
	}
}

// Attach registers a renderer notified on every change.
func (b *Browser) Attach(r Renderer) {
	if r != nil {
		b.renderers = append(b.renderers, r)
	}
}

// =============================================================================
// Loading
// =============================================================================

// BeginLoad moves the browser into StateLoading and notifies renderers.
// Previously loaded records stay visible until the load resolves.
func (b *Browser) BeginLoad() {
	b.state = StateLoading
	b.err = nil
	b.logger.Debug("catalog load started")
	b.notify()
}

// Loaded installs a freshly loaded record set, rebuilds the facet index and
// shows page 1 under the current criteria (including any set while loading).
func (b *Browser) Loaded(records []models.Service) {
	b.records = make([]models.Service, len(records))
	copy(b.records, records)
	b.facets = NewFacetIndex(b.records)
	b.state = StateReady
	b.err = nil
	b.page = 1
	b.recompute()

	b.logger.Info("catalog loaded",
		"records", len(b.records),
		"formats", len(b.facets.Formats),
		"matches", b.current.TotalMatches)
	b.notify()
}

// LoadFailed records a failed load. All previously loaded data is discarded
// so the view never mixes stale records with an error.
func (b *Browser) LoadFailed(err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = &LoadError{Err: err}
	}

	b.state = StateFailed
	b.err = loadErr
	b.records = nil
	b.facets = NewFacetIndex(nil)
	b.page = 1
	b.current = Paginate(nil, b.pageSize, 1)

	b.logger.Error("catalog load failed", "err", loadErr)
	b.notify()
}

// Load runs a complete load cycle against src. The returned error is the
// same *LoadError surfaced in the View.
func (b *Browser) Load(ctx context.Context, src DataSource) error {
	if src == nil {
		b.LoadFailed(&LoadError{Err: ErrNoSource})
		return b.err
	}

	b.BeginLoad()
	records, err := src.Load(ctx)
	if err != nil {
		b.LoadFailed(&LoadError{Source: sourceName(src), Err: err})
		return b.err
	}
	b.Loaded(records)
	return nil
}

func sourceName(src DataSource) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

// =============================================================================
// Criteria
// =============================================================================

// SetSearchText updates the search constraint and returns to page 1.
func (b *Browser) SetSearchText(text string) {
	b.criteria.SearchText = normalizeSearch(text)
	b.criteriaChanged()
}

// SetFormat updates the format constraint ("" clears it) and returns to page 1.
func (b *Browser) SetFormat(format string) {
	b.criteria.Format = normalizeFormat(format)
	b.criteriaChanged()
}

// SetRequireDeletion updates the deletion constraint and returns to page 1.
func (b *Browser) SetRequireDeletion(required bool) {
	b.criteria.RequireDeletion = required
	b.criteriaChanged()
}

// SetCriteria replaces all constraints at once and returns to page 1.
func (b *Browser) SetCriteria(c Criteria) {
	b.criteria = NewCriteria(c.SearchText, c.Format, c.RequireDeletion)
	b.criteriaChanged()
}

// ResetFilters restores the default criteria and returns to page 1.
func (b *Browser) ResetFilters() {
	b.criteria = DefaultCriteria()
	b.criteriaChanged()
}

// criteriaChanged resets paging and recomputes. While loading, the criteria
// are only stored; Loaded applies them.
func (b *Browser) criteriaChanged() {
	b.page = 1
	if b.state == StateReady {
		b.recompute()
	}
	b.logger.Debug("criteria changed", "criteria", b.criteria.String(), "state", b.state)
	b.notify()
}

// =============================================================================
// Paging
// =============================================================================

// GoToPage shows page n, clamped into the valid range. Renderers are notified
// even when the page does not change. Ignored unless the browser is ready.
func (b *Browser) GoToPage(n int) {
	if b.state != StateReady {
		b.logger.Debug("page request ignored", "page", n, "state", b.state)
		return
	}
	b.page = n
	b.recompute()
	b.notify()
}

// NextPage moves one page forward (stays on the last page).
func (b *Browser) NextPage() {
	b.GoToPage(b.page + 1)
}

// PrevPage moves one page back (stays on page 1).
func (b *Browser) PrevPage() {
	b.GoToPage(b.page - 1)
}

// FirstPage jumps to page 1.
func (b *Browser) FirstPage() {
	b.GoToPage(1)
}

// LastPage jumps to the last page.
func (b *Browser) LastPage() {
	b.GoToPage(b.current.PageCount)
}

// =============================================================================
// Accessors
// =============================================================================

// State returns the current lifecycle state.
func (b *Browser) State() State {
	return b.state
}

// Criteria returns the active criteria.
func (b *Browser) Criteria() Criteria {
	return b.criteria
}

// Matches returns every record matching the active criteria, across all pages.
func (b *Browser) Matches() []models.Service {
	return Filter(b.records, b.criteria)
}

// View returns the current snapshot.
func (b *Browser) View() View {
	formats := make([]string, len(b.facets.Formats))
	copy(formats, b.facets.Formats)
	counts := make(map[string]int, len(b.facets.Counts))
	for f, n := range b.facets.Counts {
		counts[f] = n
	}

	return View{
		State:    b.state,
		Page:     b.current,
		Total:    len(b.records),
		Facets:   FacetIndex{Formats: formats, Counts: counts},
		Criteria: b.criteria,
		Err:      b.err,
	}
}

// recompute derives the visible page from (records, criteria, page).
// Nothing is cached between calls.
func (b *Browser) recompute() {
	matches := Filter(b.records, b.criteria)
	b.current = Paginate(matches, b.pageSize, b.page)
	b.page = b.current.Number
}

func (b *Browser) notify() {
	if len(b.renderers) == 0 {
		return
	}
	v := b.View()
	for _, r := range b.renderers {
		r.Render(v)
	}
}
