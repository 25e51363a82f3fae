package catalog

import (
	"sort"
	"strings"

	"github.com/thesavant42/exportatlas/internal/models"
)

// DistinctFormats returns every declared format across records, upper-cased,
// de-duplicated and sorted ascending. Blank tokens are skipped.
func DistinctFormats(records []models.Service) []string {
	counts := FormatCounts(records)

	formats := make([]string, 0, len(counts))
	for f := range counts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// FormatCounts returns how many records declare each upper-cased format.
// A record listing the same format twice is counted once.
func FormatCounts(records []models.Service) map[string]int {
	counts := make(map[string]int)
	for i := range records {
		seen := make(map[string]bool, len(records[i].Formats))
		for _, f := range records[i].Formats {
			f = normalizeFormat(f)
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			counts[f]++
		}
	}
	return counts
}

// FacetIndex is the format facet computed from a full record set.
// It is built once per load and never narrowed by filtering.
type FacetIndex struct {
	Formats []string
	Counts  map[string]int
}

// NewFacetIndex builds the facet index for records.
func NewFacetIndex(records []models.Service) FacetIndex {
	return FacetIndex{
		Formats: DistinctFormats(records),
		Counts:  FormatCounts(records),
	}
}

// Contains reports whether format (any case) is one of the indexed formats.
func (f FacetIndex) Contains(format string) bool {
	_, ok := f.Counts[strings.ToUpper(strings.TrimSpace(format))]
	return ok
}
