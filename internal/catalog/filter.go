package catalog

import (
	"strings"

	"github.com/thesavant42/exportatlas/internal/models"
)

// Filter returns the records matching all active constraints of c, in their
// original order. The input slice is never modified.
//
// A record matches when:
//   - the search text is empty, or is a substring of the lower-cased name or notes
//   - the format is empty, or equals one of the record's formats ignoring case
//   - deletion is not required, or the record requires deletion
func Filter(records []models.Service, c Criteria) []models.Service {
	// Re-normalize so hand-built criteria behave like NewCriteria
	c = NewCriteria(c.SearchText, c.Format, c.RequireDeletion)

	result := make([]models.Service, 0, len(records))
	for i := range records {
		if Matches(records[i], c) {
			result = append(result, records[i])
		}
	}
	return result
}

// Matches reports whether a single record satisfies normalized criteria c.
func Matches(s models.Service, c Criteria) bool {
	return matchesSearch(s, c.SearchText) &&
		matchesFormat(s, c.Format) &&
		matchesDeletion(s, c.RequireDeletion)
}

func matchesSearch(s models.Service, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), search) {
		return true
	}
	return s.Notes != "" && strings.Contains(strings.ToLower(s.Notes), search)
}

func matchesFormat(s models.Service, format string) bool {
	if format == "" {
		return true
	}
	for _, f := range s.Formats {
		if strings.EqualFold(strings.TrimSpace(f), format) {
			return true
		}
	}
	return false
}

func matchesDeletion(s models.Service, required bool) bool {
	return !required || s.DeletionRequired
}
