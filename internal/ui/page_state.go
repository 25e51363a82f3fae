package ui

import (
	"time"
)

// page_state.go provides shared state for TUI pages.

// PageState contains common state that all pages need.
type PageState struct {
	Layout       Layout
	StatusMsg    string
	StatusExpiry time.Time
	Quitting     bool
}

// NewPageState creates a new PageState with the given layout.
func NewPageState(layout Layout) PageState {
	return PageState{Layout: layout}
}

// SetStatus sets a status message that will expire after the given duration.
// If duration is 0, the status message will not expire.
func (p *PageState) SetStatus(msg string, duration time.Duration) {
	p.StatusMsg = msg
	if duration > 0 {
		p.StatusExpiry = time.Now().Add(duration)
	} else {
		p.StatusExpiry = time.Time{}
	}
}

// ClearExpiredStatus clears the status message if it has expired.
func (p *PageState) ClearExpiredStatus() {
	if !p.StatusExpiry.IsZero() && time.Now().After(p.StatusExpiry) {
		p.StatusMsg = ""
		p.StatusExpiry = time.Time{}
	}
}

// UpdateLayout updates the layout and returns true if it changed.
func (p *PageState) UpdateLayout(width, height int) bool {
	newLayout := NewLayout(width, height)
	if newLayout != p.Layout {
		p.Layout = newLayout
		return true
	}
	return false
}
