package datagrid

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortUnsortedKeepsOrder(t *testing.T) {
	records := sampleRecords()
	out := Sort(records, SortState{}, siteColumns)
	assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, names(out))
}

func TestSortInvalidStateTreatedAsUnsorted(t *testing.T) {
	records := sampleRecords()
	cases := []SortState{
		{Field: "visitors"},
		{Direction: SortDesc},
		{Field: "visitors", Direction: "sideways"},
		{Field: "unknown", Direction: SortAsc},
	}
	for _, state := range cases {
		out := Sort(records, state, siteColumns)
		assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, names(out), "state %+v", state)
	}
}

func TestSortNumericMonotonicDesc(t *testing.T) {
	records := []Record{
		{"name": "a", "visitors": 5},
		{"name": "b", "visitors": int64(50)},
		{"name": "c", "visitors": 7.5},
		{"name": "d", "visitors": json.Number("12")},
		{"name": "e", "visitors": "3"},
		{"name": "f", "visitors": float32(0.5)},
	}
	out := Sort(records, SortState{Field: "visitors", Direction: SortDesc}, siteColumns)
	for i := 1; i < len(out); i++ {
		prev, _ := numberValue(out[i-1]["visitors"])
		cur, _ := numberValue(out[i]["visitors"])
		require.GreaterOrEqual(t, prev, cur)
	}
}

func TestSortStableForEqualKeys(t *testing.T) {
	records := []Record{
		{"name": "first", "visitors": 1},
		{"name": "second", "visitors": 1},
		{"name": "third", "visitors": 1},
		{"name": "top", "visitors": 2},
	}
	asc := Sort(records, SortState{Field: "visitors", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"first", "second", "third", "top"}, names(asc))
	desc := Sort(records, SortState{Field: "visitors", Direction: SortDesc}, siteColumns)
	assert.Equal(t, []string{"top", "first", "second", "third"}, names(desc))
}

func TestSortMissingValuesSortLowest(t *testing.T) {
	records := []Record{
		{"name": "missing"},
		{"name": "two", "visitors": 2},
		{"name": "nil", "visitors": nil},
		{"name": "nan", "visitors": math.NaN()},
		{"name": "bad", "visitors": "n/a"},
		{"name": "one", "visitors": 1},
	}
	asc := Sort(records, SortState{Field: "visitors", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"missing", "nil", "nan", "bad", "one", "two"}, names(asc))

	desc := Sort(records, SortState{Field: "visitors", Direction: SortDesc}, siteColumns)
	assert.Equal(t, []string{"two", "one", "missing", "nil", "nan", "bad"}, names(desc))
}

func TestSortDates(t *testing.T) {
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)
	records := []Record{
		{"name": "string", "created_at": "2024-04-01"},
		{"name": "time", "created_at": base},
		{"name": "pointer", "created_at": &later},
		{"name": "epoch", "created_at": base.Add(-48 * time.Hour).UnixMilli()},
		{"name": "garbage", "created_at": "yesterday"},
	}
	out := Sort(records, SortState{Field: "created_at", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"garbage", "string", "epoch", "time", "pointer"}, names(out))
}

func TestDateValueAcceptsEveryNumericKind(t *testing.T) {
	cases := []struct {
		name string
		in   any
	}{
		{"int", int(120)},
		{"int8", int8(120)},
		{"int16", int16(120)},
		{"int32", int32(120)},
		{"int64", int64(120)},
		{"uint", uint(120)},
		{"uint8", uint8(120)},
		{"uint16", uint16(120)},
		{"uint32", uint32(120)},
		{"uint64", uint64(120)},
		{"float32", float32(120)},
		{"float64", float64(120)},
		{"json.Number", json.Number("120")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ms, ok := dateValue(tc.in)
			require.True(t, ok)
			assert.Equal(t, int64(120), ms)
		})
	}

	records := []Record{
		{"name": "late", "created_at": uint16(300)},
		{"name": "early", "created_at": int8(10)},
		{"name": "middle", "created_at": float32(200)},
	}
	out := Sort(records, SortState{Field: "created_at", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"early", "middle", "late"}, names(out))
}

func TestSortStringsLocaleAware(t *testing.T) {
	records := []Record{{"name": "Zeta"}, {"name": "Épsilon"}, {"name": "alpha"}, {"name": "Delta"}}
	out := Sort(records, SortState{Field: "name", Direction: SortAsc}, siteColumns)
	assert.Equal(t, []string{"alpha", "Delta", "Épsilon", "Zeta"}, names(out))
}

func TestSortDescNegatesAsc(t *testing.T) {
	records := []Record{{"name": "b"}, {"name": "c"}, {"name": "a"}}
	out := Sort(records, SortState{Field: "name", Direction: SortDesc}, siteColumns, WithLocale("en-US"))
	assert.Equal(t, []string{"c", "b", "a"}, names(out))
}

func TestSortEmpty(t *testing.T) {
	out := Sort(nil, SortState{Field: "name", Direction: SortAsc}, siteColumns)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
