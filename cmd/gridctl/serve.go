package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-datagrid/components/datagrid"
	"github.com/goliatone/go-datagrid/components/datagrid/commands"
	"github.com/goliatone/go-datagrid/components/datagrid/gorouter"
	"github.com/goliatone/go-datagrid/components/datagrid/httpapi"
	"github.com/goliatone/go-datagrid/components/datagrid/queries"
	"github.com/goliatone/go-datagrid/pkg/analytics"
	"github.com/goliatone/go-datagrid/pkg/metrics"
	"github.com/goliatone/go-datagrid/pkg/sqlsource"
)

type serveCmd struct {
	Config      string `short:"c" type:"path" help:"Optional YAML/JSON/TOML config file."`
	Addr        string `help:"Listen address (overrides config)."`
	MetricsAddr string `default:":9090" env:"GRIDCTL_METRICS_ADDR" help:"Address for the Prometheus endpoint; empty disables it."`
}

// app holds the wired table stack shared by the HTTP server.
type app struct {
	logger    *slog.Logger
	registry  *datagrid.Registry
	service   *datagrid.Service
	executor  *httpapi.CommandExecutor
	broadcast *datagrid.BroadcastHook
	metrics   *metrics.PrometheusTelemetry
	dbs       []*sql.DB
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	logger := newLogger(nil, cfg.Log)

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       a.executor,
		Broadcast: a.broadcast,
		BasePath:  cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("gridctl: register routes: %w", err)
	}

	if cmd.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cmd.MetricsAddr,
			Handler:           a.metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer metricsServer.Close()
	}

	logger.Info("table routes ready",
		"addr", cfg.Addr,
		"base_path", cfg.BasePath,
		"tables", len(a.registry.Definitions()),
		"metrics_addr", cmd.MetricsAddr,
	)
	return server.Serve(cfg.Addr)
}

// buildApp wires registry, sources, service, and transports from cfg.
func buildApp(ctx context.Context, cfg serveConfig, logger *slog.Logger) (*app, error) {
	prom := metrics.NewPrometheusTelemetry(nil)
	telemetry := datagrid.MultiTelemetry{prom, datagrid.NewSlogTelemetry(logger)}

	registry := datagrid.NewEmptyRegistry()
	seed := commands.NewSeedTablesCommand(registry, telemetry)
	if err := seed.Execute(ctx, commands.SeedTablesInput{Defaults: cfg.Defaults, Manifests: cfg.Manifests}); err != nil {
		return nil, err
	}

	a := &app{logger: logger, registry: registry, metrics: prom}
	if cfg.Analytics.BaseURL != "" {
		client, err := analytics.NewHTTPClient(analytics.HTTPConfig{
			BaseURL: cfg.Analytics.BaseURL,
			APIKey:  cfg.Analytics.APIKey,
		})
		if err != nil {
			return nil, err
		}
		if err := analytics.RegisterSources(registry, client, cfg.Analytics.DefaultWebsite); err != nil {
			return nil, err
		}
	}
	for _, table := range cfg.SQL {
		db, err := sqlsource.Open(table.DSN)
		if err != nil {
			a.close()
			return nil, err
		}
		a.dbs = append(a.dbs, db)
		source := &sqlsource.Source{DB: db, Query: table.Query, ParamArgs: table.ParamArgs}
		if err := registry.RegisterSource(table.Table, source); err != nil {
			a.close()
			return nil, fmt.Errorf("gridctl: sql source for %s: %w", table.Table, err)
		}
	}

	a.broadcast = datagrid.NewBroadcastHook()
	a.service = datagrid.NewService(datagrid.Options{
		Registry:  registry,
		StateHook: a.broadcast,
		Telemetry: telemetry,
		Logger:    logger,
		Cache:     datagrid.NewViewCache(cfg.CacheTTL),
		Policy:    cfg.headerPolicy(),
	})
	a.executor = &httpapi.CommandExecutor{
		SortCommander:   commands.NewActivateHeaderCommand(a.service, telemetry),
		SearchCommander: commands.NewSearchTableCommand(a.service, telemetry),
		ResetCommander:  commands.NewResetTableCommand(a.service, telemetry),
		ViewQuerier:     queries.NewTableViewQuery(a.service),
		TablesQuerier:   queries.NewTableListQuery(a.service),
	}
	return a, nil
}

func (a *app) close() {
	for _, db := range a.dbs {
		if err := db.Close(); err != nil {
			a.logger.Warn("close database", "error", err)
		}
	}
	a.dbs = nil
}
