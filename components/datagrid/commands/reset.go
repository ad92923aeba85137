package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datagrid "github.com/goliatone/go-datagrid/components/datagrid"
)

// ResetTableInput clears the viewer's state for a table.
type ResetTableInput struct {
	Viewer    datagrid.ViewerContext `json:"viewer"`
	TableCode string                 `json:"table_code"`
	Result    *datagrid.TableState   `json:"-"`
}

type resetService interface {
	Reset(ctx context.Context, viewer datagrid.ViewerContext, code string) (datagrid.TableState, error)
}

// ResetTableCommand restores a table's default sort and empty query.
type ResetTableCommand struct {
	service   resetService
	telemetry Telemetry
}

// NewResetTableCommand creates the command.
func NewResetTableCommand(service resetService, telemetry Telemetry) *ResetTableCommand {
	return &ResetTableCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetTableInput] = (*ResetTableCommand)(nil)

// Execute resets the table state.
func (c *ResetTableCommand) Execute(ctx context.Context, msg ResetTableInput) error {
	if c.service == nil {
		return errors.New("reset command requires service")
	}
	state, err := c.service.Reset(ctx, msg.Viewer, msg.TableCode)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "datagrid.command.reset", map[string]any{"table": msg.TableCode})
	return nil
}
