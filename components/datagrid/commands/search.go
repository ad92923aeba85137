package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datagrid "github.com/goliatone/go-datagrid/components/datagrid"
)

// SearchTableInput stores a search query for the viewer.
type SearchTableInput struct {
	Viewer    datagrid.ViewerContext `json:"viewer"`
	TableCode string                 `json:"table_code"`
	Query     string                 `json:"query"`
	Result    *datagrid.TableState   `json:"-"`
}

type searchService interface {
	Search(ctx context.Context, viewer datagrid.ViewerContext, code, query string) (datagrid.TableState, error)
}

// SearchTableCommand persists the viewer's search query.
type SearchTableCommand struct {
	service   searchService
	telemetry Telemetry
}

// NewSearchTableCommand creates the command.
func NewSearchTableCommand(service searchService, telemetry Telemetry) *SearchTableCommand {
	return &SearchTableCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SearchTableInput] = (*SearchTableCommand)(nil)

// Execute stores the query.
func (c *SearchTableCommand) Execute(ctx context.Context, msg SearchTableInput) error {
	if c.service == nil {
		return errors.New("search command requires service")
	}
	if msg.TableCode == "" {
		return errors.New("search command requires table code")
	}
	state, err := c.service.Search(ctx, msg.Viewer, msg.TableCode, msg.Query)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "datagrid.command.search", map[string]any{
		"table":     msg.TableCode,
		"query_len": len(msg.Query),
	})
	return nil
}
