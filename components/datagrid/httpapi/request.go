package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

// Header names read by ViewerFromRequest.
const (
	HeaderViewerID    = "X-Viewer-ID"
	HeaderViewerRoles = "X-Viewer-Roles"
)

// ViewerFromRequest builds a viewer from the X-Viewer-* headers and the
// locale query parameter or Accept-Language header.
func ViewerFromRequest(r *http.Request) datagrid.ViewerContext {
	viewer := datagrid.ViewerContext{
		UserID: strings.TrimSpace(r.Header.Get(HeaderViewerID)),
	}
	for _, role := range strings.Split(r.Header.Get(HeaderViewerRoles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		viewer.Locale = strings.ToLower(locale)
	} else {
		viewer.Locale = PreferredLocale(r.Header.Get("Accept-Language"))
	}
	return viewer
}

// PreferredLocale returns the highest weighted tag of an Accept-Language
// header, lowercased, or "" when none parse.
func PreferredLocale(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return strings.ToLower(tags[0].String())
}

// reserved query keys never forwarded as source params.
var reserved = map[string]struct{}{
	"q": {}, "sort": {}, "dir": {}, "locale": {},
}

// ViewRequestFromQuery maps URL query values onto a view request.
// q sets the search query, sort/dir the sort state, every other key is
// forwarded to the record source as a param.
func ViewRequestFromQuery(code string, viewer datagrid.ViewerContext, values url.Values) (datagrid.ViewRequest, error) {
	req := datagrid.ViewRequest{Viewer: viewer, TableCode: code}
	if values.Has("q") {
		q := values.Get("q")
		req.Query = &q
	}
	if values.Has("sort") {
		sort := datagrid.SortState{
			Field:     datagrid.FieldKey(values.Get("sort")),
			Direction: datagrid.SortDirection(strings.ToLower(values.Get("dir"))),
		}
		if sort.Field != "" && sort.Direction == datagrid.SortNone {
			return datagrid.ViewRequest{}, errors.New("dir must be asc or desc when sort is set")
		}
		req.Sort = &sort
	}
	for key, vals := range values {
		if _, skip := reserved[key]; skip || len(vals) == 0 {
			continue
		}
		if req.Params == nil {
			req.Params = map[string]any{}
		}
		req.Params[key] = vals[0]
	}
	return req, nil
}
