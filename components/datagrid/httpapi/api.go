package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-datagrid/components/datagrid"
	"github.com/goliatone/go-datagrid/components/datagrid/commands"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	API    Executor
	Viewer func(*http.Request) datagrid.ViewerContext
}

// SortPayload is the body of a header activation.
type SortPayload struct {
	Field datagrid.FieldKey `json:"field"`
}

// SearchPayload is the body of a search update.
type SearchPayload struct {
	Query string `json:"query"`
}

// Mux mounts the handlers on a ServeMux under /tables.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tables", h.HandleListTables)
	mux.HandleFunc("GET /tables/{code}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleView(w, r, r.PathValue("code"))
	})
	mux.HandleFunc("POST /tables/{code}/sort", func(w http.ResponseWriter, r *http.Request) {
		h.HandleSort(w, r, r.PathValue("code"))
	})
	mux.HandleFunc("POST /tables/{code}/search", func(w http.ResponseWriter, r *http.Request) {
		h.HandleSearch(w, r, r.PathValue("code"))
	})
	mux.HandleFunc("DELETE /tables/{code}/state", func(w http.ResponseWriter, r *http.Request) {
		h.HandleReset(w, r, r.PathValue("code"))
	})
	return mux
}

func (h *Handlers) HandleListTables(w http.ResponseWriter, r *http.Request) {
	defs, err := h.API.Tables(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if defs == nil {
		defs = []datagrid.TableDefinition{}
	}
	writeJSON(w, http.StatusOK, defs)
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request, code string) {
	req, err := ViewRequestFromQuery(code, h.viewer(r), r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.API.View(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, datagrid.FormatResult(result))
}

func (h *Handlers) HandleSort(w http.ResponseWriter, r *http.Request, code string) {
	var payload SortPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, err := h.API.Sort(r.Context(), commands.ActivateHeaderInput{
		Viewer:    h.viewer(r),
		TableCode: code,
		Field:     payload.Field,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request, code string) {
	var payload SearchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, err := h.API.Search(r.Context(), commands.SearchTableInput{
		Viewer:    h.viewer(r),
		TableCode: code,
		Query:     payload.Query,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request, code string) {
	state, err := h.API.Reset(r.Context(), commands.ResetTableInput{
		Viewer:    h.viewer(r),
		TableCode: code,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) viewer(r *http.Request) datagrid.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return ViewerFromRequest(r)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, datagrid.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, datagrid.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, datagrid.ErrMissingViewer):
		return http.StatusUnauthorized
	case errors.Is(err, datagrid.ErrInvalidRequest), errors.Is(err, datagrid.ErrUnknownColumn):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

// writeJSON encodes v before committing status so an unencodable payload
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("encode response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
