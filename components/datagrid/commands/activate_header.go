package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datagrid "github.com/goliatone/go-datagrid/components/datagrid"
)

// ActivateHeaderInput describes a header click on a table column.
type ActivateHeaderInput struct {
	Viewer    datagrid.ViewerContext `json:"viewer"`
	TableCode string                 `json:"table_code"`
	Field     datagrid.FieldKey      `json:"field"`
	// Result receives the resulting state when non-nil.
	Result *datagrid.TableState `json:"-"`
}

type headerService interface {
	ActivateHeader(ctx context.Context, viewer datagrid.ViewerContext, code string, field datagrid.FieldKey) (datagrid.TableState, error)
}

// ActivateHeaderCommand advances the sort state machine for the viewer.
type ActivateHeaderCommand struct {
	service   headerService
	telemetry Telemetry
}

// NewActivateHeaderCommand creates the command.
func NewActivateHeaderCommand(service headerService, telemetry Telemetry) *ActivateHeaderCommand {
	return &ActivateHeaderCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ActivateHeaderInput] = (*ActivateHeaderCommand)(nil)

// Execute delegates to the table service.
func (c *ActivateHeaderCommand) Execute(ctx context.Context, msg ActivateHeaderInput) error {
	if c.service == nil {
		return errors.New("activate header command requires service")
	}
	if msg.TableCode == "" {
		return errors.New("activate header command requires table code")
	}
	state, err := c.service.ActivateHeader(ctx, msg.Viewer, msg.TableCode, msg.Field)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "datagrid.command.sort", map[string]any{
		"table":     msg.TableCode,
		"field":     string(state.Sort.Field),
		"direction": string(state.Sort.Direction),
	})
	return nil
}
