package analytics

import (
	"context"
	"fmt"
	"sync"
)

// MockData seeds deterministic analytics responses for tests or local demos.
type MockData struct {
	Websites []Website
	// Metrics is keyed by metric type.
	Metrics map[string][]MetricValue
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds a mock analytics client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// FetchWebsites returns the configured websites ignoring the window.
func (c *MockClient) FetchWebsites(context.Context, Window) ([]Website, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Website, len(c.data.Websites))
	copy(out, c.data.Websites)
	return out, nil
}

// FetchMetrics returns the configured breakdown for the query type.
func (c *MockClient) FetchMetrics(_ context.Context, query MetricsQuery) ([]MetricValue, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values, ok := c.data.Metrics[query.Type]
	if !ok {
		return nil, fmt.Errorf("analytics: mock has no metric %q", query.Type)
	}
	if query.Limit > 0 && query.Limit < len(values) {
		values = values[:query.Limit]
	}
	out := make([]MetricValue, len(values))
	copy(out, values)
	return out, nil
}

// SetWebsites swaps the website fixtures.
func (c *MockClient) SetWebsites(sites []Website) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Websites = sites
}
