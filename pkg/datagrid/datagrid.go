package datagrid

import (
	core "github.com/goliatone/go-datagrid/components/datagrid"
)

// Service exposes the underlying components/datagrid.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Record, SortState and TableState re-exports for callers using the engine
// directly.
type (
	Record     = core.Record
	FieldKey   = core.FieldKey
	SortState  = core.SortState
	TableState = core.TableState
	Columns    = core.Columns
)

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// ComputeView proxies to the filter-then-sort pipeline.
func ComputeView(records []Record, query string, searchable []FieldKey, state SortState, columns Columns) []Record {
	return core.ComputeView(records, query, searchable, state, columns)
}
