package goadmin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	core "github.com/goliatone/go-datagrid/components/datagrid"
	datagridpkg "github.com/goliatone/go-datagrid/pkg/datagrid"
)

// MenuBuilder ensures table entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures table link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the table service + feature flags into an admin shell.
type Config struct {
	EnableTables bool
	MenuCode     string
	MenuBuilder  MenuBuilder
	Service      *datagridpkg.Service
	// Viewer decides which tables get menu entries.
	Viewer core.ViewerContext
	// RoutePrefix is prepended to the table code to build menu routes.
	RoutePrefix string
	Icon        string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed table menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableTables && cfg.Service == nil {
		return nil, errors.New("goadmin: table service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin.tables."
	}
	if cfg.Icon == "" {
		cfg.Icon = "table"
	}
	return &Admin{cfg: cfg}, nil
}

// Tables exposes the configured table service when enabled.
func (a *Admin) Tables() *datagridpkg.Service {
	if !a.cfg.EnableTables {
		return nil
	}
	return a.cfg.Service
}

// MenuItems returns one entry per table visible to the configured viewer.
func (a *Admin) MenuItems(ctx context.Context) []MenuItem {
	if !a.cfg.EnableTables {
		return nil
	}
	defs := a.cfg.Service.Tables(ctx, a.cfg.Viewer)
	items := make([]MenuItem, 0, len(defs))
	for idx, def := range defs {
		items = append(items, MenuItem{
			Label:    def.NameForLocale(a.cfg.Viewer.Locale),
			Route:    a.cfg.RoutePrefix + routeSlug(def.Code),
			Icon:     a.cfg.Icon,
			Position: idx,
		})
	}
	return items
}

// Bootstrap seeds menu entries when table support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableTables || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.MenuItems(ctx) {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: ensure menu item %s: %w", item.Route, err)
		}
	}
	return nil
}

// routeSlug keeps the last dotted segment of a table code.
func routeSlug(code string) string {
	if idx := strings.LastIndex(code, "."); idx >= 0 {
		return code[idx+1:]
	}
	return code
}
