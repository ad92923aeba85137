package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datagrid "github.com/goliatone/go-datagrid/components/datagrid"
)

type viewService interface {
	View(ctx context.Context, req datagrid.ViewRequest) (datagrid.ViewResult, error)
}

// TableViewQuery computes the filtered and sorted view of a table.
type TableViewQuery struct {
	service viewService
}

// NewTableViewQuery builds the query.
func NewTableViewQuery(service viewService) *TableViewQuery {
	return &TableViewQuery{service: service}
}

var _ gocommand.Querier[datagrid.ViewRequest, datagrid.ViewResult] = (*TableViewQuery)(nil)

// Query resolves the view for the request.
func (q *TableViewQuery) Query(ctx context.Context, req datagrid.ViewRequest) (datagrid.ViewResult, error) {
	return q.service.View(ctx, req)
}
