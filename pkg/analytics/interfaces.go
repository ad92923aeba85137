package analytics

import "context"

// WebsiteClient lists tracked websites together with their traffic totals.
type WebsiteClient interface {
	FetchWebsites(ctx context.Context, window Window) ([]Website, error)
}

// MetricsClient fetches a metric breakdown (url, referrer, country, ...) for
// a website.
type MetricsClient interface {
	FetchMetrics(ctx context.Context, query MetricsQuery) ([]MetricValue, error)
}

// Client is a convenience union for backends that implement both calls.
type Client interface {
	WebsiteClient
	MetricsClient
}
