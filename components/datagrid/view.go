package datagrid

// ComputeView filters then sorts records.
func ComputeView(records []Record, query string, searchableFields []FieldKey, state SortState, columns Columns, opts ...SortOption) []Record {
	return Sort(Filter(records, query, searchableFields), state, columns, opts...)
}

// Table bundles the static configuration of a sortable/filterable table.
type Table struct {
	Columns Columns
	Policy  HeaderPolicy
	Locale  string
}

// NewTable builds a Table with the default header policy.
func NewTable(columns Columns) *Table {
	return &Table{Columns: columns, Policy: DefaultHeaderPolicy}
}

// Searchable returns the fields participating in search.
func (t *Table) Searchable() []FieldKey {
	return SearchableFields(t.Columns)
}

// Filter applies the search query.
func (t *Table) Filter(records []Record, query string) []Record {
	return Filter(records, query, t.Searchable())
}

// Sort orders records by state.
func (t *Table) Sort(records []Record, state SortState) []Record {
	return Sort(records, state, t.Columns, WithLocale(t.Locale))
}

// Activate transitions state for a header click. Unknown fields leave the
// state untouched.
func (t *Table) Activate(state SortState, field FieldKey) SortState {
	if _, ok := t.Columns.Lookup(field); !ok {
		return state.Normalize()
	}
	return t.Policy.Activate(state, field)
}

// View computes the filtered and sorted records together with the summary
// row of the filtered set.
func (t *Table) View(records []Record, state TableState) ([]Record, SummaryRow) {
	filtered := t.Filter(records, state.Query)
	return t.Sort(filtered, state.Sort), Summarize(filtered, t.Columns)
}

// Headers reports the header state of each column.
func (t *Table) Headers(state SortState) map[FieldKey]HeaderState {
	out := make(map[FieldKey]HeaderState, len(t.Columns))
	for _, col := range t.Columns {
		out[col.Field] = HeaderStateFor(state, col.Field)
	}
	return out
}
