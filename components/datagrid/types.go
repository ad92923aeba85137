package datagrid

import (
	"context"
	"time"
)

// Record is a single row of tabular data keyed by field name.
type Record map[string]any

// FieldKey names a field inside a Record. The empty key means "no field".
type FieldKey string

// ComparableType determines comparison semantics for a column.
type ComparableType string

const (
	TypeString ComparableType = "string"
	TypeNumber ComparableType = "number"
	TypeDate   ComparableType = "date"
)

// Valid reports whether the type is one of the known comparable types.
func (t ComparableType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate:
		return true
	}
	return false
}

// SortDirection is the direction of the active sort. Empty means unsorted.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the single global sort for a table.
type SortState struct {
	Field     FieldKey      `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// Normalize maps any inconsistent state to the unsorted zero value.
func (s SortState) Normalize() SortState {
	if s.Field == "" {
		return SortState{}
	}
	switch s.Direction {
	case SortAsc, SortDesc:
		return s
	}
	return SortState{}
}

// IsSorted reports whether the normalized state has an active field.
func (s SortState) IsSorted() bool {
	return s.Normalize().Field != ""
}

// HeaderState is the observable state of a single column header.
type HeaderState string

const (
	HeaderUnsorted   HeaderState = "UNSORTED"
	HeaderAscending  HeaderState = "ASCENDING"
	HeaderDescending HeaderState = "DESCENDING"
)

// ColumnSpec describes one sortable/displayable field.
type ColumnSpec struct {
	Field          FieldKey          `json:"field" yaml:"field"`
	Label          string            `json:"label" yaml:"label"`
	LabelLocalized map[string]string `json:"label_localized,omitempty" yaml:"label_localized,omitempty"`
	Type           ComparableType    `json:"type" yaml:"type"`
	Searchable     bool              `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	Format         string            `json:"format,omitempty" yaml:"format,omitempty"`
}

// Columns is an ordered set of column specs.
type Columns []ColumnSpec

// Lookup returns the column for field.
func (c Columns) Lookup(field FieldKey) (ColumnSpec, bool) {
	for _, col := range c {
		if col.Field == field {
			return col, true
		}
	}
	return ColumnSpec{}, false
}

// Fields returns the field keys in declaration order.
func (c Columns) Fields() []FieldKey {
	out := make([]FieldKey, 0, len(c))
	for _, col := range c {
		out = append(out, col.Field)
	}
	return out
}

// TableDefinition describes a table exposed by the service.
type TableDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	Columns              Columns           `json:"columns" yaml:"columns"`
	DefaultSort          SortState         `json:"default_sort,omitempty" yaml:"default_sort,omitempty"`
	Roles                []string          `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// ViewerContext captures the active user/locale information.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// TableState is the ephemeral per-viewer UI state of a table.
type TableState struct {
	Query string    `json:"query"`
	Sort  SortState `json:"sort"`
}

// StateStore holds table state per viewer. Implementations are not expected
// to persist beyond the process lifetime.
type StateStore interface {
	TableState(ctx context.Context, viewer ViewerContext, code string) (TableState, bool, error)
	SaveTableState(ctx context.Context, viewer ViewerContext, code string, state TableState) error
	ClearTableState(ctx context.Context, viewer ViewerContext, code string) error
}

// Authorizer determines if a viewer can see a table.
type Authorizer interface {
	CanViewTable(ctx context.Context, viewer ViewerContext, def TableDefinition) bool
}

// StateHook notifies transports (REST/WebSocket) about table state changes.
type StateHook interface {
	StateChanged(ctx context.Context, event StateEvent) error
}

// StateEvent describes a change transports might care about.
type StateEvent struct {
	ID        string     `json:"id"`
	TableCode string     `json:"table_code"`
	UserID    string     `json:"user_id,omitempty"`
	State     TableState `json:"state"`
	Reason    string     `json:"reason"`
	At        time.Time  `json:"at"`
}

// ViewRequest asks the service for a computed table view. Nil Query/Sort fall
// back to the viewer's stored state.
type ViewRequest struct {
	Viewer    ViewerContext  `json:"viewer"`
	TableCode string         `json:"table_code"`
	Query     *string        `json:"query,omitempty"`
	Sort      *SortState     `json:"sort,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// ColumnView is a column header as presented to a viewer.
type ColumnView struct {
	Field      FieldKey       `json:"field"`
	Label      string         `json:"label"`
	Type       ComparableType `json:"type"`
	Format     string         `json:"format,omitempty"`
	Searchable bool           `json:"searchable"`
	State      HeaderState    `json:"state"`
}

// ViewResult is the derived view of a table for a viewer.
type ViewResult struct {
	Table    string       `json:"table"`
	Name     string       `json:"name"`
	Columns  []ColumnView `json:"columns"`
	Rows     []Record     `json:"rows"`
	Total    int          `json:"total"`
	Matched  int          `json:"matched"`
	State    TableState   `json:"state"`
	Summary  SummaryRow   `json:"summary"`
	Delays   []int64      `json:"delays_ms,omitempty"`
	CachedAt time.Time    `json:"cached_at,omitempty"`
}
