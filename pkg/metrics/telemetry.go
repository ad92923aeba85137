// Package metrics exports table telemetry as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

// PrometheusTelemetry implements datagrid.Telemetry with counters per event
// and a histogram of matched rows per view.
type PrometheusTelemetry struct {
	gatherer prometheus.Gatherer
	events   *prometheus.CounterVec
	matched  *prometheus.HistogramVec
}

var _ datagrid.Telemetry = (*PrometheusTelemetry)(nil)

// NewPrometheusTelemetry registers the datagrid collectors on reg. A nil reg
// uses a fresh registry.
func NewPrometheusTelemetry(reg *prometheus.Registry) *PrometheusTelemetry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &PrometheusTelemetry{
		gatherer: reg,
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datagrid_events_total",
				Help: "Total number of table events by event name and table code",
			},
			[]string{"event", "table"},
		),
		matched: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datagrid_view_matched_rows",
				Help:    "Rows left after filtering per table view",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"table"},
		),
	}
}

// Record implements datagrid.Telemetry.
func (p *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	table, _ := payload["table"].(string)
	p.events.WithLabelValues(event, table).Inc()
	if matched, ok := payload["matched"].(int); ok {
		p.matched.WithLabelValues(table).Observe(float64(matched))
	}
}

// Handler exposes the registered metrics over HTTP.
func (p *PrometheusTelemetry) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
