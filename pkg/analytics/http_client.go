package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Now        func() time.Time
}

// HTTPClient talks to a website-stats REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	now     func() time.Time
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client capable of hitting live analytics APIs.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		now:     now,
	}, nil
}

// FetchWebsites lists websites then loads stats for each one.
func (c *HTTPClient) FetchWebsites(ctx context.Context, window Window) ([]Website, error) {
	var list websitesResponse
	if err := c.get(ctx, "/websites", nil, &list); err != nil {
		return nil, err
	}
	window = window.Resolve(c.now())
	out := make([]Website, 0, len(list.Data))
	for _, site := range list.Data {
		var stats statsResponse
		path := "/websites/" + url.PathEscape(site.ID) + "/stats"
		if err := c.get(ctx, path, windowParams(window), &stats); err != nil {
			return nil, err
		}
		out = append(out, Website{
			ID:        site.ID,
			Name:      site.Name,
			Domain:    site.Domain,
			CreatedAt: site.CreatedAt,
			Stats:     stats.toStats(),
		})
	}
	return out, nil
}

// FetchMetrics loads a metric breakdown for a website.
func (c *HTTPClient) FetchMetrics(ctx context.Context, query MetricsQuery) ([]MetricValue, error) {
	if query.WebsiteID == "" {
		return nil, fmt.Errorf("analytics: website id is required")
	}
	if query.Type == "" {
		return nil, fmt.Errorf("analytics: metric type is required")
	}
	params := windowParams(query.Window.Resolve(c.now()))
	params.Set("type", query.Type)
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	var values []MetricValue
	path := "/websites/" + url.PathEscape(query.WebsiteID) + "/metrics"
	if err := c.get(ctx, path, params, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

func windowParams(w Window) url.Values {
	params := url.Values{}
	params.Set("startAt", strconv.FormatInt(w.StartAt.UnixMilli(), 10))
	params.Set("endAt", strconv.FormatInt(w.EndAt.UnixMilli(), 10))
	return params
}

type websiteEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}

type websitesResponse struct {
	Data []websiteEntry `json:"data"`
}

type statValue struct {
	Value int64 `json:"value"`
}

type statsResponse struct {
	Pageviews statValue `json:"pageviews"`
	Visitors  statValue `json:"visitors"`
	Visits    statValue `json:"visits"`
	Bounces   statValue `json:"bounces"`
	TotalTime statValue `json:"totaltime"`
}

func (r statsResponse) toStats() Stats {
	return Stats{
		Pageviews: r.Pageviews.Value,
		Visitors:  r.Visitors.Value,
		Visits:    r.Visits.Value,
		Bounces:   r.Bounces.Value,
		TotalTime: r.TotalTime.Value,
	}
}
