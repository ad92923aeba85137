package datagrid

import (
	"context"
	"log/slog"
)

// Telemetry records table events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry writes telemetry events as structured log records.
type SlogTelemetry struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewSlogTelemetry builds a telemetry sink logging at debug level.
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	return &SlogTelemetry{Logger: logger, Level: slog.LevelDebug}
}

// Record implements Telemetry.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	if t == nil || t.Logger == nil {
		return
	}
	attrs := make([]slog.Attr, 0, len(payload))
	for k, v := range payload {
		attrs = append(attrs, slog.Any(k, v))
	}
	t.Logger.LogAttrs(ctx, t.Level, event, attrs...)
}

// MultiTelemetry fans events out to several sinks.
type MultiTelemetry []Telemetry

// Record implements Telemetry.
func (m MultiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range m {
		if t != nil {
			t.Record(ctx, event, payload)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
