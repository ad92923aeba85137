package datagrid

import (
	"context"
	"strconv"
	"strings"
)

// RecordSource fetches the records backing a table. Records are supplied
// wholesale; the engine never pages or streams.
type RecordSource interface {
	Fetch(ctx context.Context, meta TableContext) ([]Record, error)
}

// TableContext contains the metadata needed by sources.
type TableContext struct {
	Definition TableDefinition
	Viewer     ViewerContext
	Params     map[string]any
}

// SourceFunc adapts a function into a RecordSource.
type SourceFunc func(ctx context.Context, meta TableContext) ([]Record, error)

// Fetch implements RecordSource.
func (f SourceFunc) Fetch(ctx context.Context, meta TableContext) ([]Record, error) {
	return f(ctx, meta)
}

// StaticSource serves a fixed record set.
type StaticSource []Record

// Fetch implements RecordSource.
func (s StaticSource) Fetch(context.Context, TableContext) ([]Record, error) {
	out := make([]Record, len(s))
	copy(out, s)
	return out, nil
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
