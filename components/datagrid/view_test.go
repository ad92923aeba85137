package datagrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var siteColumns = Columns{
	{Field: "name", Label: "Name", Type: TypeString, Searchable: true},
	{Field: "visitors", Label: "Visitors", Type: TypeNumber},
	{Field: "created_at", Label: "Created", Type: TypeDate},
}

func sampleRecords() []Record {
	return []Record{
		{"name": "Beta", "visitors": 100},
		{"name": "Alpha", "visitors": 300},
		{"name": "Gamma", "visitors": 100},
	}
}

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		s, _ := r["name"].(string)
		out = append(out, s)
	}
	return out
}

func TestComputeViewSortsByVisitorsDescStable(t *testing.T) {
	view := ComputeView(sampleRecords(), "", []FieldKey{"name"}, SortState{Field: "visitors", Direction: SortDesc}, siteColumns)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names(view))
}

func TestComputeViewSearchThenSortByName(t *testing.T) {
	view := ComputeView(sampleRecords(), "a", []FieldKey{"name"}, SortState{Field: "name", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names(view))
}

func TestComputeViewFiltersBeforeSorting(t *testing.T) {
	view := ComputeView(sampleRecords(), "mm", []FieldKey{"name"}, SortState{Field: "visitors", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"Gamma"}, names(view))
}

func TestComputeViewDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	_ = ComputeView(records, "", nil, SortState{Field: "name", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, names(records))
}

func TestTableViewBuildsSummaryFromFilteredSet(t *testing.T) {
	table := NewTable(siteColumns)
	rows, summary := table.View(sampleRecords(), TableState{Query: "ta", Sort: SortState{Field: "name", Direction: SortDesc}})
	assert.Equal(t, []string{"Beta"}, names(rows))
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 100.0, summary.Sums["visitors"])
}

func TestTableActivateIgnoresUnknownField(t *testing.T) {
	table := NewTable(siteColumns)
	state := table.Activate(SortState{Field: "visitors", Direction: SortDesc}, "missing")
	assert.Equal(t, SortState{Field: "visitors", Direction: SortDesc}, state)
}

func TestTableHeadersExclusive(t *testing.T) {
	table := NewTable(siteColumns)
	state := SortState{}
	for _, field := range []FieldKey{"name", "visitors", "visitors", "created_at", "name", "name"} {
		state = table.Activate(state, field)
		active := 0
		for _, h := range table.Headers(state) {
			if h != HeaderUnsorted {
				active++
			}
		}
		require.LessOrEqual(t, active, 1)
	}
}

func TestTableSortUsesLocale(t *testing.T) {
	table := NewTable(siteColumns)
	table.Locale = "sv"
	records := []Record{{"name": "Zeta"}, {"name": "Alpha"}}
	sorted := table.Sort(records, SortState{Field: "name", Direction: SortAsc})
	assert.Equal(t, []string{"Alpha", "Zeta"}, names(sorted))
}

func TestRowDelays(t *testing.T) {
	delays := RowDelays(4, 30*time.Millisecond, 60*time.Millisecond)
	assert.Equal(t, []time.Duration{0, 30 * time.Millisecond, 60 * time.Millisecond, 60 * time.Millisecond}, delays)
	assert.Nil(t, RowDelays(0, time.Millisecond, 0))
}
