package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/datagrid"
	"github.com/goliatone/go-datagrid/components/datagrid/commands"
)

// Executor runs table state commands and read queries for transports.
type Executor interface {
	Sort(ctx context.Context, input commands.ActivateHeaderInput) (datagrid.TableState, error)
	Search(ctx context.Context, input commands.SearchTableInput) (datagrid.TableState, error)
	Reset(ctx context.Context, input commands.ResetTableInput) (datagrid.TableState, error)
	View(ctx context.Context, req datagrid.ViewRequest) (datagrid.ViewResult, error)
	Tables(ctx context.Context, viewer datagrid.ViewerContext) ([]datagrid.TableDefinition, error)
}

var errMissingHandler = errors.New("httpapi: handler not configured")

// CommandExecutor adapts go-command commanders and queriers into an Executor.
type CommandExecutor struct {
	SortCommander   gocommand.Commander[commands.ActivateHeaderInput]
	SearchCommander gocommand.Commander[commands.SearchTableInput]
	ResetCommander  gocommand.Commander[commands.ResetTableInput]
	ViewQuerier     gocommand.Querier[datagrid.ViewRequest, datagrid.ViewResult]
	TablesQuerier   gocommand.Querier[datagrid.ViewerContext, []datagrid.TableDefinition]
}

var _ Executor = (*CommandExecutor)(nil)

// Sort executes the header activation command.
func (e *CommandExecutor) Sort(ctx context.Context, input commands.ActivateHeaderInput) (datagrid.TableState, error) {
	if e.SortCommander == nil {
		return datagrid.TableState{}, errMissingHandler
	}
	var state datagrid.TableState
	input.Result = &state
	if err := e.SortCommander.Execute(ctx, input); err != nil {
		return datagrid.TableState{}, err
	}
	return state, nil
}

// Search executes the search command.
func (e *CommandExecutor) Search(ctx context.Context, input commands.SearchTableInput) (datagrid.TableState, error) {
	if e.SearchCommander == nil {
		return datagrid.TableState{}, errMissingHandler
	}
	var state datagrid.TableState
	input.Result = &state
	if err := e.SearchCommander.Execute(ctx, input); err != nil {
		return datagrid.TableState{}, err
	}
	return state, nil
}

// Reset executes the reset command.
func (e *CommandExecutor) Reset(ctx context.Context, input commands.ResetTableInput) (datagrid.TableState, error) {
	if e.ResetCommander == nil {
		return datagrid.TableState{}, errMissingHandler
	}
	var state datagrid.TableState
	input.Result = &state
	if err := e.ResetCommander.Execute(ctx, input); err != nil {
		return datagrid.TableState{}, err
	}
	return state, nil
}

// View runs the view query.
func (e *CommandExecutor) View(ctx context.Context, req datagrid.ViewRequest) (datagrid.ViewResult, error) {
	if e.ViewQuerier == nil {
		return datagrid.ViewResult{}, errMissingHandler
	}
	return e.ViewQuerier.Query(ctx, req)
}

// Tables runs the table list query.
func (e *CommandExecutor) Tables(ctx context.Context, viewer datagrid.ViewerContext) ([]datagrid.TableDefinition, error) {
	if e.TablesQuerier == nil {
		return nil, errMissingHandler
	}
	return e.TablesQuerier.Query(ctx, viewer)
}
