package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-datagrid/components/datagrid"
	"github.com/goliatone/go-datagrid/components/datagrid/commands"
	"github.com/goliatone/go-datagrid/components/datagrid/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

func newLiveHandlers() *Handlers {
	service := datagrid.NewService(datagrid.Options{})
	return &Handlers{API: &CommandExecutor{
		SortCommander:   commands.NewActivateHeaderCommand(service, nil),
		SearchCommander: commands.NewSearchTableCommand(service, nil),
		ResetCommander:  commands.NewResetTableCommand(service, nil),
		ViewQuerier:     queries.NewTableViewQuery(service),
		TablesQuerier:   queries.NewTableListQuery(service),
	}}
}

func do(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleListTables(t *testing.T) {
	rec := do(t, newLiveHandlers().Mux(), http.MethodGet, "/tables", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var defs []datagrid.TableDefinition
	if err := json.Unmarshal(rec.Body.Bytes(), &defs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(defs) != len(datagrid.DefaultTableDefinitions()) {
		t.Fatalf("expected default tables, got %d", len(defs))
	}
}

func TestHandleViewAppliesQueryParams(t *testing.T) {
	rec := do(t, newLiveHandlers().Mux(), http.MethodGet, "/tables/analytics.table.websites?q=example&sort=name&dir=asc", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload datagrid.DisplayPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.State.Sort.Field != "name" || payload.State.Sort.Direction != datagrid.SortAsc {
		t.Fatalf("unexpected state %#v", payload.State)
	}
	if len(payload.Cells) == 0 || payload.Cells[0][0] != "Acme Store" {
		t.Fatalf("expected rows sorted by name, got %v", payload.Cells)
	}
}

func TestHandleViewErrors(t *testing.T) {
	mux := newLiveHandlers().Mux()
	cases := []struct {
		target string
		want   int
	}{
		{"/tables/missing", http.StatusNotFound},
		{"/tables/analytics.table.websites?sort=revenue&dir=asc", http.StatusBadRequest},
		{"/tables/analytics.table.websites?sort=name", http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := do(t, mux, http.MethodGet, tc.target, "", nil); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.target, tc.want, rec.Code)
		}
	}
}

func TestHandleSortCyclesHeader(t *testing.T) {
	mux := newLiveHandlers().Mux()
	headers := map[string]string{HeaderViewerID: "user-1"}
	wants := []datagrid.SortState{
		{Field: "name", Direction: datagrid.SortDesc},
		{Field: "name", Direction: datagrid.SortAsc},
		{},
	}
	for i, want := range wants {
		rec := do(t, mux, http.MethodPost, "/tables/analytics.table.websites/sort", `{"field":"name"}`, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("step %d: expected 200, got %d: %s", i, rec.Code, rec.Body.String())
		}
		var state datagrid.TableState
		if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if state.Sort != want {
			t.Fatalf("step %d: expected %#v, got %#v", i, want, state.Sort)
		}
	}
}

func TestHandleSortErrors(t *testing.T) {
	mux := newLiveHandlers().Mux()
	if rec := do(t, mux, http.MethodPost, "/tables/analytics.table.websites/sort", `{"field":"name"}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous viewer, got %d", rec.Code)
	}
	headers := map[string]string{HeaderViewerID: "user-1"}
	if rec := do(t, mux, http.MethodPost, "/tables/analytics.table.websites/sort", `{"field":"revenue"}`, headers); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown column, got %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/tables/analytics.table.websites/sort", `{`, headers); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rec.Code)
	}
}

func TestHandleSearchThenResetRoundTrip(t *testing.T) {
	mux := newLiveHandlers().Mux()
	headers := map[string]string{HeaderViewerID: "user-1"}
	if rec := do(t, mux, http.MethodPost, "/tables/analytics.table.websites/search", `{"query":"BLOG"}`, headers); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := do(t, mux, http.MethodGet, "/tables/analytics.table.websites", "", headers)
	var payload datagrid.DisplayPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Matched != 1 || payload.Total != 6 {
		t.Fatalf("expected 1 of 6 rows, got %d of %d", payload.Matched, payload.Total)
	}

	if rec := do(t, mux, http.MethodDelete, "/tables/analytics.table.websites/state", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = do(t, mux, http.MethodGet, "/tables/analytics.table.websites", "", headers)
	payload = datagrid.DisplayPayload{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Matched != 6 {
		t.Fatalf("expected reset to clear query, got %d rows", payload.Matched)
	}
}

func TestCommandExecutorPassesInputs(t *testing.T) {
	sort := &stubCommander[commands.ActivateHeaderInput]{}
	api := &Handlers{API: &CommandExecutor{SortCommander: sort}, Viewer: func(*http.Request) datagrid.ViewerContext {
		return datagrid.ViewerContext{UserID: "fixed"}
	}}
	req := httptest.NewRequest(http.MethodPost, "/tables/t/sort", strings.NewReader(`{"field":"visitors"}`))
	rec := httptest.NewRecorder()
	api.HandleSort(rec, req, "t")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sort.calls != 1 || sort.last.TableCode != "t" || sort.last.Field != "visitors" || sort.last.Viewer.UserID != "fixed" {
		t.Fatalf("unexpected command input %#v", sort.last)
	}
}

func TestCommandExecutorMissingHandlers(t *testing.T) {
	rec := do(t, (&Handlers{API: &CommandExecutor{}}).Mux(), http.MethodGet, "/tables", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{datagrid.ErrTableNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", datagrid.ErrForbidden), http.StatusForbidden},
		{datagrid.ErrMissingViewer, http.StatusUnauthorized},
		{fmt.Errorf("wrap: %w", datagrid.ErrInvalidRequest), http.StatusBadRequest},
		{datagrid.ErrUnknownColumn, http.StatusBadRequest},
		{fmt.Errorf("upstream"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestViewerFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set(HeaderViewerID, " user-9 ")
	req.Header.Set(HeaderViewerRoles, "admin, ,editor")
	req.Header.Set("Accept-Language", "fr;q=0.5, es-MX;q=0.9")
	viewer := ViewerFromRequest(req)
	if viewer.UserID != "user-9" || len(viewer.Roles) != 2 || viewer.Locale != "es-mx" {
		t.Fatalf("unexpected viewer %#v", viewer)
	}

	req = httptest.NewRequest(http.MethodGet, "/tables?locale=PT", nil)
	if got := ViewerFromRequest(req).Locale; got != "pt" {
		t.Fatalf("expected query locale, got %q", got)
	}
	if got := PreferredLocale("!!"); got != "" {
		t.Fatalf("expected empty locale for garbage header, got %q", got)
	}
}

func TestViewRequestFromQuery(t *testing.T) {
	values := url.Values{"q": {""}, "sort": {"visitors"}, "dir": {"DESC"}, "limit": {"5"}, "locale": {"es"}}
	req, err := ViewRequestFromQuery("t", datagrid.ViewerContext{}, values)
	if err != nil {
		t.Fatalf("ViewRequestFromQuery returned error: %v", err)
	}
	if req.Query == nil || *req.Query != "" {
		t.Fatalf("expected explicit empty query")
	}
	if req.Sort == nil || *req.Sort != (datagrid.SortState{Field: "visitors", Direction: datagrid.SortDesc}) {
		t.Fatalf("unexpected sort %#v", req.Sort)
	}
	if len(req.Params) != 1 || req.Params["limit"] != "5" {
		t.Fatalf("unexpected params %#v", req.Params)
	}

	req, err = ViewRequestFromQuery("t", datagrid.ViewerContext{}, url.Values{"sort": {""}})
	if err != nil || req.Sort == nil || req.Sort.IsSorted() {
		t.Fatalf("expected explicit unsort, got %#v err=%v", req.Sort, err)
	}
}

func TestHandleViewOverflowingSumsStillEncode(t *testing.T) {
	registry := datagrid.NewEmptyRegistry()
	def := datagrid.TableDefinition{
		Code:    "t",
		Name:    "Overflow",
		Columns: datagrid.Columns{{Field: "visitors", Label: "Visitors", Type: datagrid.TypeNumber}},
	}
	if err := registry.RegisterDefinition(def); err != nil {
		t.Fatalf("register definition: %v", err)
	}
	source := datagrid.StaticSource{{"visitors": 1e308}, {"visitors": 1e308}}
	if err := registry.RegisterSource("t", source); err != nil {
		t.Fatalf("register source: %v", err)
	}
	service := datagrid.NewService(datagrid.Options{Registry: registry})
	h := &Handlers{API: &CommandExecutor{ViewQuerier: queries.NewTableViewQuery(service)}}

	rec := do(t, h.Mux(), http.MethodGet, "/tables/t", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload datagrid.DisplayPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if len(payload.Cells) != 2 {
		t.Fatalf("expected 2 rows, got %v", payload.Cells)
	}
	if payload.Footer["visitors"] != datagrid.EmptyValue {
		t.Fatalf("expected empty footer for overflowing sum, got %q", payload.Footer["visitors"])
	}
	if _, ok := payload.Summary.Sums["visitors"]; ok {
		t.Fatalf("expected no summary sum, got %v", payload.Summary.Sums)
	}
}

func TestWriteJSONReportsEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"sum": math.Inf(1)})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body["error"], "encode response") {
		t.Fatalf("unexpected error body %v", body)
	}
}
