package catalog

import "github.com/thesavant42/exportatlas/internal/models"

// DefaultPageSize is the number of cards shown per page
const DefaultPageSize = 12

// Page is one paginated slice of the matching records plus its metadata.
type Page struct {
	Visible      []models.Service
	Number       int // 1-based, always >= 1
	PageCount    int // 0 when there are no matches
	PageSize     int
	TotalMatches int
}

// Paginate slices matches into the requested page. Out-of-range requests are
// clamped into [1, max(PageCount, 1)]; a non-positive pageSize falls back to
// DefaultPageSize. It never fails.
func Paginate(matches []models.Service, pageSize, requested int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(matches)
	pageCount := (total + pageSize - 1) / pageSize

	page := clampPage(requested, pageCount)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	visible := make([]models.Service, end-start)
	copy(visible, matches[start:end])

	return Page{
		Visible:      visible,
		Number:       page,
		PageCount:    pageCount,
		PageSize:     pageSize,
		TotalMatches: total,
	}
}

// clampPage restricts a requested page to [1, max(pageCount, 1)]
func clampPage(requested, pageCount int) int {
	last := pageCount
	if last < 1 {
		last = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > last {
		return last
	}
	return requested
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.Number < p.PageCount
}

// Empty reports whether there is nothing to show.
func (p Page) Empty() bool {
	return p.PageCount == 0
}

// Range returns the 1-based positions of the first and last visible record
// within the matches, or (0, 0) for an empty page.
func (p Page) Range() (first, last int) {
	if len(p.Visible) == 0 {
		return 0, 0
	}
	first = (p.Number-1)*p.PageSize + 1
	return first, first + len(p.Visible) - 1
}
