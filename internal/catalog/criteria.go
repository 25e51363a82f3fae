// Package catalog holds the filter-and-render pipeline of the service browser:
// criteria, the filter engine, the paginator, the format facet index and the
// Browser state container that ties them together.
package catalog

import (
	"fmt"
	"strings"
)

// Criteria is the active combination of search text, format and deletion flag.
// The zero value is the default criteria and matches every record.
type Criteria struct {
	SearchText      string // lower-cased, trimmed; "" = no constraint
	Format          string // upper-cased, trimmed; "" = no constraint
	RequireDeletion bool   // false = no constraint
}

// NewCriteria builds normalized criteria from raw user input.
func NewCriteria(search, format string, requireDeletion bool) Criteria {
	return Criteria{
		SearchText:      normalizeSearch(search),
		Format:          normalizeFormat(format),
		RequireDeletion: requireDeletion,
	}
}

// DefaultCriteria returns criteria with no active constraint.
func DefaultCriteria() Criteria {
	return Criteria{}
}

// IsDefault reports whether no constraint is active.
func (c Criteria) IsDefault() bool {
	return c == Criteria{}
}

// String renders the active constraints, e.g. `search~"mail" format=CSV deletion`.
func (c Criteria) String() string {
	if c.IsDefault() {
		return "all services"
	}
	var parts []string
	if c.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search~%q", c.SearchText))
	}
	if c.Format != "" {
		parts = append(parts, "format="+c.Format)
	}
	if c.RequireDeletion {
		parts = append(parts, "deletion required")
	}
	return strings.Join(parts, " ")
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeFormat(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
