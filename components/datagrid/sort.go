package datagrid

import "slices"

// SortOption customizes Sort.
type SortOption func(*sortConfig)

type sortConfig struct {
	locale string
}

// WithLocale selects the collation locale used for string columns.
func WithLocale(locale string) SortOption {
	return func(cfg *sortConfig) {
		cfg.locale = locale
	}
}

// Sort returns a stably sorted copy of records. An unsorted state, or a field
// that is not one of columns, keeps the input order.
func Sort(records []Record, state SortState, columns Columns, opts ...SortOption) []Record {
	out := slices.Clone(records)
	if out == nil {
		out = []Record{}
	}
	state = state.Normalize()
	if state.Field == "" {
		return out
	}
	col, ok := columns.Lookup(state.Field)
	if !ok {
		return out
	}
	cfg := sortConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	compare := directed(ascendingComparator(col, collatorFor(cfg.locale)), state.Direction)
	slices.SortStableFunc(out, func(a, b Record) int {
		return compare(a, b)
	})
	return out
}
