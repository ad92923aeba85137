package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datagrid "github.com/goliatone/go-datagrid/components/datagrid"
)

type tablesService interface {
	Tables(ctx context.Context, viewer datagrid.ViewerContext) []datagrid.TableDefinition
}

// TableListQuery lists the tables visible to a viewer.
type TableListQuery struct {
	service tablesService
}

// NewTableListQuery builds the query.
func NewTableListQuery(service tablesService) *TableListQuery {
	return &TableListQuery{service: service}
}

var _ gocommand.Querier[datagrid.ViewerContext, []datagrid.TableDefinition] = (*TableListQuery)(nil)

// Query returns the visible definitions.
func (q *TableListQuery) Query(ctx context.Context, viewer datagrid.ViewerContext) ([]datagrid.TableDefinition, error) {
	return q.service.Tables(ctx, viewer), nil
}
