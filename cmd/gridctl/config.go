package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

const envPrefix = "GRIDCTL"

// serveConfig is loaded from an optional config file plus GRIDCTL_* env vars.
type serveConfig struct {
	Addr      string          `mapstructure:"addr"`
	BasePath  string          `mapstructure:"base_path"`
	Manifests []string        `mapstructure:"manifests"`
	Defaults  bool            `mapstructure:"defaults"`
	CacheTTL  time.Duration   `mapstructure:"cache_ttl"`
	Log       logConfig       `mapstructure:"log"`
	Policy    policyConfig    `mapstructure:"policy"`
	Analytics analyticsConfig `mapstructure:"analytics"`
	SQL       []sqlTable      `mapstructure:"sql"`
}

type logConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type policyConfig struct {
	Initial string `mapstructure:"initial"`
	Cycle   string `mapstructure:"cycle"`
}

type analyticsConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	DefaultWebsite string `mapstructure:"default_website"`
}

// sqlTable binds a registered table code to a query against a sqlite DSN.
type sqlTable struct {
	Table     string   `mapstructure:"table"`
	DSN       string   `mapstructure:"dsn"`
	Query     string   `mapstructure:"query"`
	ParamArgs []string `mapstructure:"param_args"`
}

func loadConfig(path string) (serveConfig, error) {
	v := viper.New()
	v.SetDefault("addr", ":9876")
	v.SetDefault("base_path", "/admin")
	v.SetDefault("defaults", true)
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("policy.initial", string(datagrid.SortDesc))
	v.SetDefault("policy.cycle", string(datagrid.CycleTriState))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"analytics.base_url", "analytics.api_key", "analytics.default_website"} {
		if err := v.BindEnv(key); err != nil {
			return serveConfig{}, fmt.Errorf("gridctl: bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return serveConfig{}, fmt.Errorf("gridctl: read config %s: %w", path, err)
		}
	}

	var cfg serveConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return serveConfig{}, fmt.Errorf("gridctl: decode config: %w", err)
	}
	if raw := v.GetString("manifests"); raw != "" && len(cfg.Manifests) == 0 {
		cfg.Manifests = splitList(raw)
	}
	return cfg, cfg.validate()
}

func (cfg serveConfig) validate() error {
	switch datagrid.CycleMode(cfg.Policy.Cycle) {
	case datagrid.CycleTriState, datagrid.CycleToggle:
	default:
		return fmt.Errorf("gridctl: unknown policy cycle %q", cfg.Policy.Cycle)
	}
	switch datagrid.SortDirection(cfg.Policy.Initial) {
	case datagrid.SortAsc, datagrid.SortDesc:
	default:
		return fmt.Errorf("gridctl: unknown policy initial direction %q", cfg.Policy.Initial)
	}
	for _, table := range cfg.SQL {
		if table.Table == "" || table.DSN == "" || table.Query == "" {
			return errors.New("gridctl: sql tables need table, dsn, and query")
		}
	}
	return nil
}

func (cfg serveConfig) headerPolicy() datagrid.HeaderPolicy {
	return datagrid.HeaderPolicy{
		Initial: datagrid.SortDirection(cfg.Policy.Initial),
		Cycle:   datagrid.CycleMode(cfg.Policy.Cycle),
	}
}

func newLogger(w io.Writer, cfg logConfig) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
