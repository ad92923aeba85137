package datagrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTableNotFound is returned when a table code is not registered.
	ErrTableNotFound = errors.New("datagrid: table not found")
	// ErrUnknownColumn is returned when a field is not a column of the table.
	ErrUnknownColumn = errors.New("datagrid: unknown column")
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("datagrid: invalid request")
	// ErrForbidden is returned when the viewer cannot see the table.
	ErrForbidden = errors.New("datagrid: table not visible to viewer")
	// ErrMissingViewer is returned by state changes without a viewer id.
	ErrMissingViewer = errors.New("datagrid: viewer context missing user id")

	errMissingSource = errors.New("datagrid: table has no record source")
)

// Options configures the table Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Registry   TableRegistry
	StateStore StateStore
	Authorizer Authorizer
	Validator  RequestValidator
	StateHook  StateHook
	Telemetry  Telemetry
	Logger     *slog.Logger
	Cache      ViewMemo
	Policy     HeaderPolicy
	// RowDelayStep staggers row transitions in view results. Zero disables it.
	RowDelayStep time.Duration
	RowDelayMax  time.Duration
	Now          func() time.Time
}

// Service exposes sortable/filterable table views with per-viewer state.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.StateStore == nil {
		opts.StateStore = NewInMemoryStateStore()
	}
	if opts.Authorizer == nil {
		opts.Authorizer = RoleAuthorizer{}
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.StateHook == nil {
		opts.StateHook = noopStateHook{}
	}
	if opts.Cache == nil {
		opts.Cache = noopMemo{}
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Policy = opts.Policy.Normalize()
	return &Service{opts: opts}
}

// Policy returns the header policy in effect.
func (s *Service) Policy() HeaderPolicy {
	return s.opts.Policy
}

// Tables returns the definitions visible to the viewer.
func (s *Service) Tables(ctx context.Context, viewer ViewerContext) []TableDefinition {
	var out []TableDefinition
	for _, def := range s.opts.Registry.Definitions() {
		if s.opts.Authorizer.CanViewTable(ctx, viewer, def) {
			out = append(out, def)
		}
	}
	return out
}

// View computes the filtered and sorted rows of a table for the viewer.
func (s *Service) View(ctx context.Context, req ViewRequest) (ViewResult, error) {
	def, err := s.definition(ctx, req.Viewer, req.TableCode)
	if err != nil {
		return ViewResult{}, err
	}
	state, err := s.currentState(ctx, req.Viewer, def)
	if err != nil {
		return ViewResult{}, err
	}
	if req.Query != nil {
		state.Query = *req.Query
	}
	if req.Sort != nil {
		state.Sort = *req.Sort
	}
	if err := s.opts.Validator.Validate(def, requestPayload(state, req.Params)); err != nil {
		return ViewResult{}, err
	}
	state.Sort = state.Sort.Normalize()
	if _, ok := def.Columns.Lookup(state.Sort.Field); !ok {
		state.Sort = SortState{}
	}

	records, err := s.fetch(ctx, def, req)
	if err != nil {
		return ViewResult{}, err
	}
	table := s.table(def, req.Viewer)
	compute := func() (ComputedView, error) {
		rows, summary := table.View(records, state)
		return ComputedView{
			Rows:     rows,
			Total:    len(records),
			Summary:  summary,
			Computed: s.opts.Now(),
		}, nil
	}
	var computed ComputedView
	if key := viewKey(def.Code, req.Viewer.Locale, state, req.Params, datasetVersion(records)); key != "" {
		computed, err = s.opts.Cache.GetOrCompute(key, compute)
	} else {
		computed, err = compute()
	}
	if err != nil {
		return ViewResult{}, err
	}

	result := ViewResult{
		Table:    def.Code,
		Name:     def.NameForLocale(req.Viewer.Locale),
		Columns:  columnViews(def, state.Sort, req.Viewer.Locale),
		Rows:     computed.Rows,
		Total:    computed.Total,
		Matched:  len(computed.Rows),
		State:    state,
		Summary:  computed.Summary,
		CachedAt: computed.Computed,
	}
	if s.opts.RowDelayStep > 0 {
		for _, d := range RowDelays(len(computed.Rows), s.opts.RowDelayStep, s.opts.RowDelayMax) {
			result.Delays = append(result.Delays, d.Milliseconds())
		}
	}
	s.recordTelemetry(ctx, "datagrid.view", map[string]any{
		"table":   def.Code,
		"viewer":  req.Viewer.UserID,
		"total":   result.Total,
		"matched": result.Matched,
	})
	return result, nil
}

// ActivateHeader applies a header click to the viewer's stored sort state.
func (s *Service) ActivateHeader(ctx context.Context, viewer ViewerContext, code string, field FieldKey) (TableState, error) {
	def, err := s.definition(ctx, viewer, code)
	if err != nil {
		return TableState{}, err
	}
	if _, ok := def.Columns.Lookup(field); !ok {
		return TableState{}, fmt.Errorf("datagrid: table %s field %q: %w", code, field, ErrUnknownColumn)
	}
	state, err := s.currentState(ctx, viewer, def)
	if err != nil {
		return TableState{}, err
	}
	state.Sort = s.table(def, viewer).Activate(state.Sort, field)
	if err := s.saveState(ctx, viewer, def, state, "sort"); err != nil {
		return TableState{}, err
	}
	return state, nil
}

// Search stores the viewer's search query for a table.
func (s *Service) Search(ctx context.Context, viewer ViewerContext, code, query string) (TableState, error) {
	def, err := s.definition(ctx, viewer, code)
	if err != nil {
		return TableState{}, err
	}
	state, err := s.currentState(ctx, viewer, def)
	if err != nil {
		return TableState{}, err
	}
	state.Query = query
	if err := s.opts.Validator.Validate(def, requestPayload(state, nil)); err != nil {
		return TableState{}, err
	}
	if err := s.saveState(ctx, viewer, def, state, "search"); err != nil {
		return TableState{}, err
	}
	return state, nil
}

// Reset restores the table's default sort and clears the query.
func (s *Service) Reset(ctx context.Context, viewer ViewerContext, code string) (TableState, error) {
	def, err := s.definition(ctx, viewer, code)
	if err != nil {
		return TableState{}, err
	}
	if viewer.UserID == "" {
		return TableState{}, ErrMissingViewer
	}
	if err := s.opts.StateStore.ClearTableState(ctx, viewer, def.Code); err != nil {
		return TableState{}, err
	}
	state := defaultState(def)
	s.notify(ctx, viewer, def, state, "reset")
	return state, nil
}

// State returns the viewer's current state for a table.
func (s *Service) State(ctx context.Context, viewer ViewerContext, code string) (TableState, error) {
	def, err := s.definition(ctx, viewer, code)
	if err != nil {
		return TableState{}, err
	}
	return s.currentState(ctx, viewer, def)
}

func (s *Service) definition(ctx context.Context, viewer ViewerContext, code string) (TableDefinition, error) {
	code = strings.TrimSpace(code)
	def, ok := s.opts.Registry.Definition(code)
	if !ok {
		return TableDefinition{}, fmt.Errorf("%w: %s", ErrTableNotFound, code)
	}
	if !s.opts.Authorizer.CanViewTable(ctx, viewer, def) {
		return TableDefinition{}, fmt.Errorf("%w: %s", ErrForbidden, code)
	}
	return def, nil
}

func (s *Service) currentState(ctx context.Context, viewer ViewerContext, def TableDefinition) (TableState, error) {
	state, ok, err := s.opts.StateStore.TableState(ctx, viewer, def.Code)
	if err != nil {
		return TableState{}, fmt.Errorf("datagrid: load state %s: %w", def.Code, err)
	}
	if !ok {
		return defaultState(def), nil
	}
	return state, nil
}

func (s *Service) saveState(ctx context.Context, viewer ViewerContext, def TableDefinition, state TableState, reason string) error {
	if viewer.UserID == "" {
		return ErrMissingViewer
	}
	if err := s.opts.StateStore.SaveTableState(ctx, viewer, def.Code, state); err != nil {
		return fmt.Errorf("datagrid: save state %s: %w", def.Code, err)
	}
	s.notify(ctx, viewer, def, state, reason)
	return nil
}

func (s *Service) notify(ctx context.Context, viewer ViewerContext, def TableDefinition, state TableState, reason string) {
	event := StateEvent{
		ID:        uuid.NewString(),
		TableCode: def.Code,
		UserID:    viewer.UserID,
		State:     state,
		Reason:    reason,
		At:        s.opts.Now().UTC(),
	}
	if err := s.opts.StateHook.StateChanged(ctx, event); err != nil {
		s.opts.Logger.WarnContext(ctx, "state hook failed",
			slog.String("table", def.Code),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
	s.recordTelemetry(ctx, "datagrid.state."+reason, map[string]any{
		"table":     def.Code,
		"viewer":    viewer.UserID,
		"field":     string(state.Sort.Field),
		"direction": string(state.Sort.Direction),
	})
}

func (s *Service) fetch(ctx context.Context, def TableDefinition, req ViewRequest) ([]Record, error) {
	source, ok := s.opts.Registry.Source(def.Code)
	if !ok || source == nil {
		return nil, fmt.Errorf("%w: %s", errMissingSource, def.Code)
	}
	records, err := source.Fetch(ctx, TableContext{
		Definition: def,
		Viewer:     req.Viewer,
		Params:     req.Params,
	})
	if err != nil {
		s.opts.Logger.ErrorContext(ctx, "record source failed",
			slog.String("table", def.Code),
			slog.Any("error", err),
		)
		s.recordTelemetry(ctx, "datagrid.source_error", map[string]any{
			"table": def.Code,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("datagrid: fetch %s: %w", def.Code, err)
	}
	return records, nil
}

func (s *Service) table(def TableDefinition, viewer ViewerContext) *Table {
	return &Table{Columns: def.Columns, Policy: s.opts.Policy, Locale: viewer.Locale}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func defaultState(def TableDefinition) TableState {
	return TableState{Sort: def.DefaultSort.Normalize()}
}

func requestPayload(state TableState, params map[string]any) map[string]any {
	payload := map[string]any{
		"query": state.Query,
		"sort": map[string]any{
			"field":     string(state.Sort.Field),
			"direction": string(state.Sort.Direction),
		},
	}
	if params != nil {
		payload["params"] = params
	}
	return payload
}

func columnViews(def TableDefinition, state SortState, locale string) []ColumnView {
	searchable := SearchableFields(def.Columns)
	out := make([]ColumnView, 0, len(def.Columns))
	for _, col := range def.Columns {
		out = append(out, ColumnView{
			Field:      col.Field,
			Label:      col.LabelForLocale(locale),
			Type:       col.Type,
			Format:     col.Format,
			Searchable: slices.Contains(searchable, col.Field),
			State:      HeaderStateFor(state, col.Field),
		})
	}
	return out
}

// RoleAuthorizer allows tables without roles to everyone and restricts the
// rest to viewers holding one of the listed roles.
type RoleAuthorizer struct{}

// CanViewTable implements Authorizer.
func (RoleAuthorizer) CanViewTable(_ context.Context, viewer ViewerContext, def TableDefinition) bool {
	if len(def.Roles) == 0 {
		return true
	}
	for _, role := range viewer.Roles {
		if slices.Contains(def.Roles, role) {
			return true
		}
	}
	return false
}
