package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/exportatlas/internal/models"
)

func scenarioRecords() []models.Service {
	return []models.Service{
		{Name: "Alpha", Notes: "export now", Formats: []string{"CSV"}, DeletionRequired: false},
		{Name: "Beta", Notes: "", Formats: []string{"JSON"}, DeletionRequired: true},
	}
}

func names(records []models.Service) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestFilter_DefaultCriteriaIsIdentity(t *testing.T) {
	records := []models.Service{
		{Name: "Zeta"},
		{Name: "Alpha", Formats: []string{"csv"}},
		{Name: "Mid", Notes: "notes", DeletionRequired: true},
		{Name: ""},
	}

	got := Filter(records, DefaultCriteria())
	assert.Equal(t, records, got)
}

func TestFilter_Scenario(t *testing.T) {
	records := scenarioRecords()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"search by name", NewCriteria("alpha", "", false), []string{"Alpha"}},
		{"search is case-insensitive", NewCriteria("  ALPHA ", "", false), []string{"Alpha"}},
		{"search matches notes", NewCriteria("export", "", false), []string{"Alpha"}},
		{"deletion required", NewCriteria("", "", true), []string{"Beta"}},
		{"format lower-case selection", NewCriteria("", "json", false), []string{"Beta"}},
		{"format upper-case selection", NewCriteria("", "CSV", false), []string{"Alpha"}},
		{"all constraints", NewCriteria("bet", "json", true), []string{"Beta"}},
		{"no match", NewCriteria("gamma", "", false), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(records, tt.criteria)))
		})
	}
}

func TestFilter_FormatCaseInsensitiveBothWays(t *testing.T) {
	lower := []models.Service{{Name: "a", Formats: []string{"csv"}}}
	upper := []models.Service{{Name: "b", Formats: []string{"CSV"}}}

	assert.Len(t, Filter(lower, NewCriteria("", "CSV", false)), 1)
	assert.Len(t, Filter(upper, NewCriteria("", "csv", false)), 1)
	// Unnormalized criteria built by hand behave the same
	assert.Len(t, Filter(lower, Criteria{Format: "Csv"}), 1)
	assert.Len(t, Filter(upper, Criteria{SearchText: " B "}), 1)
}

func TestFilter_DeletionFlag(t *testing.T) {
	records := []models.Service{
		{Name: "keeps", DeletionRequired: true},
		{Name: "drops", DeletionRequired: false},
	}

	got := Filter(records, NewCriteria("", "", true))
	assert.Equal(t, []string{"keeps"}, names(got))

	got = Filter(records, NewCriteria("", "", false))
	assert.Equal(t, []string{"keeps", "drops"}, names(got))
}

func TestFilter_AbsentFieldsNeverMatchConstraints(t *testing.T) {
	records := []models.Service{{Name: "Bare"}}

	assert.Empty(t, Filter(records, NewCriteria("notes", "", false)))
	assert.Empty(t, Filter(records, NewCriteria("", "CSV", false)))
	assert.Len(t, Filter(records, NewCriteria("bare", "", false)), 1)
}

func TestFilter_PreservesOrderAndIsIdempotent(t *testing.T) {
	records := []models.Service{
		{Name: "mail c", Formats: []string{"MBOX"}},
		{Name: "other"},
		{Name: "mail a", Formats: []string{"mbox"}},
		{Name: "mail b", Formats: []string{"MBOX", "PST"}},
	}
	c := NewCriteria("mail", "mbox", false)

	first := Filter(records, c)
	second := Filter(records, c)

	require.Equal(t, []string{"mail c", "mail a", "mail b"}, names(first))
	assert.Equal(t, first, second)
	// Input untouched
	assert.Equal(t, "mail c", records[0].Name)
	assert.Len(t, records, 4)
}

func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, NewCriteria("x", "CSV", true)))
	assert.Empty(t, Filter([]models.Service{}, DefaultCriteria()))
}

func TestCriteria_Normalization(t *testing.T) {
	c := NewCriteria("  Google Takeout ", " json ", true)

	assert.Equal(t, "google takeout", c.SearchText)
	assert.Equal(t, "JSON", c.Format)
	assert.True(t, c.RequireDeletion)
	assert.False(t, c.IsDefault())
	assert.True(t, NewCriteria("   ", "", false).IsDefault())
	assert.Equal(t, "all services", DefaultCriteria().String())
	assert.Equal(t, `search~"google takeout" format=JSON deletion required`, c.String())
}
