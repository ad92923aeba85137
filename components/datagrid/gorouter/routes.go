package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-datagrid/components/datagrid"
	"github.com/goliatone/go-datagrid/components/datagrid/commands"
	"github.com/goliatone/go-datagrid/components/datagrid/httpapi"
)

// ViewerResolver converts a router.Context into a datagrid.ViewerContext.
type ViewerResolver func(router.Context) datagrid.ViewerContext

// Config wires go-router with the table API and broadcast hook.
type Config[T any] struct {
	Router         router.Router[T]
	API            httpapi.Executor
	Broadcast      *datagrid.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
	// ParamKeys lists query keys forwarded to record sources.
	ParamKeys []string
}

// RouteConfig customizes the relative paths used for table endpoints.
type RouteConfig struct {
	Tables    string
	Table     string
	Sort      string
	Search    string
	State     string
	WebSocket string
}

// DefaultParamKeys are forwarded to record sources when Config.ParamKeys is empty.
var DefaultParamKeys = []string{"limit", "website", "start_at", "end_at"}

// Register mounts table routes (JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}
	paramKeys := cfg.ParamKeys
	if len(paramKeys) == 0 {
		paramKeys = DefaultParamKeys
	}

	group := cfg.Router.Group(base)
	registerAPI(group, cfg.API, resolver, routes, paramKeys)
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig, paramKeys []string) {
	r.Get(routes.Tables, router.WrapHandler(func(ctx router.Context) error {
		defs, err := api.Tables(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		if defs == nil {
			defs = []datagrid.TableDefinition{}
		}
		return ctx.JSON(http.StatusOK, defs)
	}))

	r.Get(routes.Table, router.WrapHandler(func(ctx router.Context) error {
		values := queryValues(func(key string) string { return ctx.Query(key) }, paramKeys)
		req, err := httpapi.ViewRequestFromQuery(ctx.Param("code"), resolver(ctx), values)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		result, err := api.View(ctx.Context(), req)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, datagrid.FormatResult(result))
	}))

	r.Post(routes.Sort, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.SortPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state, err := api.Sort(ctx.Context(), commands.ActivateHeaderInput{
			Viewer:    resolver(ctx),
			TableCode: ctx.Param("code"),
			Field:     payload.Field,
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))

	r.Post(routes.Search, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.SearchPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state, err := api.Search(ctx.Context(), commands.SearchTableInput{
			Viewer:    resolver(ctx),
			TableCode: ctx.Param("code"),
			Query:     payload.Query,
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))

	r.Delete(routes.State, router.WrapHandler(func(ctx router.Context) error {
		state, err := api.Reset(ctx.Context(), commands.ResetTableInput{
			Viewer:    resolver(ctx),
			TableCode: ctx.Param("code"),
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *datagrid.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// queryValues collects the view query keys plus paramKeys. Empty values are
// treated as absent.
func queryValues(get func(string) string, paramKeys []string) url.Values {
	values := url.Values{}
	for _, key := range append([]string{"q", "sort", "dir"}, paramKeys...) {
		if v := strings.TrimSpace(get(key)); v != "" {
			values.Set(key, v)
		}
	}
	return values
}

func defaultViewerResolver(ctx router.Context) datagrid.ViewerContext {
	var viewer datagrid.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	} else {
		viewer.UserID = strings.TrimSpace(ctx.Header(httpapi.HeaderViewerID))
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return httpapi.PreferredLocale(ctx.Header("Accept-Language"))
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Tables == "" {
		routes.Tables = "/tables"
	}
	if routes.Table == "" {
		routes.Table = "/tables/:code"
	}
	if routes.Sort == "" {
		routes.Sort = "/tables/:code/sort"
	}
	if routes.Search == "" {
		routes.Search = "/tables/:code/search"
	}
	if routes.State == "" {
		routes.State = "/tables/:code/state"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/tables/ws"
	}
	return routes
}
