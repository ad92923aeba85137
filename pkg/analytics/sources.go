package analytics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

// NewWebsitesSource adapts a WebsiteClient into a record source whose fields
// match the analytics.table.websites columns.
func NewWebsitesSource(client WebsiteClient) datagrid.RecordSource {
	return datagrid.SourceFunc(func(ctx context.Context, meta datagrid.TableContext) ([]datagrid.Record, error) {
		window, err := windowFromParams(meta.Params)
		if err != nil {
			return nil, err
		}
		sites, err := client.FetchWebsites(ctx, window)
		if err != nil {
			return nil, err
		}
		records := make([]datagrid.Record, 0, len(sites))
		for _, site := range sites {
			record := datagrid.Record{
				"id":         site.ID,
				"name":       site.Name,
				"domain":     site.Domain,
				"visitors":   site.Stats.Visitors,
				"pageviews":  site.Stats.Pageviews,
				"visits":     site.Stats.Visits,
				"created_at": site.CreatedAt,
			}
			if rate, ok := site.Stats.BounceRate(); ok {
				record["bounce_rate"] = rate
			}
			if duration, ok := site.Stats.AverageVisitDuration(); ok {
				record["visit_duration"] = duration
			}
			records = append(records, record)
		}
		return records, nil
	})
}

// NewMetricsSource adapts a MetricsClient breakdown into records keyed by
// field, with "visitors" and a "share" percentage of the total. The website
// comes from the "website" param, falling back to defaultWebsite.
func NewMetricsSource(client MetricsClient, metricType string, field datagrid.FieldKey, defaultWebsite string) datagrid.RecordSource {
	return datagrid.SourceFunc(func(ctx context.Context, meta datagrid.TableContext) ([]datagrid.Record, error) {
		website := defaultWebsite
		if v, ok := meta.Params["website"].(string); ok && v != "" {
			website = v
		}
		window, err := windowFromParams(meta.Params)
		if err != nil {
			return nil, err
		}
		values, err := client.FetchMetrics(ctx, MetricsQuery{
			WebsiteID: website,
			Type:      metricType,
			Window:    window,
			Limit:     limitFromParams(meta.Params),
		})
		if err != nil {
			return nil, err
		}
		var total float64
		for _, v := range values {
			total += float64(v.Y)
		}
		records := make([]datagrid.Record, 0, len(values))
		for _, v := range values {
			record := datagrid.Record{"visitors": v.Y}
			if v.X != nil {
				record[string(field)] = *v.X
			} else {
				record[string(field)] = nil
			}
			if share, ok := datagrid.ShareOfTotal(float64(v.Y), total); ok {
				record["share"] = share
			}
			records = append(records, record)
		}
		return records, nil
	})
}

// RegisterSources binds client-backed sources to the default analytics
// tables, replacing the demo sources.
func RegisterSources(reg datagrid.TableRegistry, client Client, defaultWebsite string) error {
	sources := map[string]datagrid.RecordSource{
		"analytics.table.websites":  NewWebsitesSource(client),
		"analytics.table.pages":     NewMetricsSource(client, "url", "path", defaultWebsite),
		"analytics.table.referrers": NewMetricsSource(client, "referrer", "referrer", defaultWebsite),
		"analytics.table.countries": NewMetricsSource(client, "country", "code", defaultWebsite),
		"analytics.table.browsers":  NewMetricsSource(client, "browser", "browser", defaultWebsite),
	}
	for code, source := range sources {
		if err := reg.RegisterSource(code, source); err != nil {
			return fmt.Errorf("analytics: register %s: %w", code, err)
		}
	}
	return nil
}

func windowFromParams(params map[string]any) (Window, error) {
	var window Window
	var err error
	if window.StartAt, err = timeParam(params, "start_at"); err != nil {
		return Window{}, err
	}
	if window.EndAt, err = timeParam(params, "end_at"); err != nil {
		return Window{}, err
	}
	if !window.StartAt.IsZero() && !window.EndAt.IsZero() && window.EndAt.Before(window.StartAt) {
		return Window{}, fmt.Errorf("analytics: %w: end_at before start_at", datagrid.ErrInvalidRequest)
	}
	return window, nil
}

func timeParam(params map[string]any, key string) (time.Time, error) {
	switch v := params[key].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	case int:
		return time.UnixMilli(int64(v)).UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("analytics: %w: invalid %s %q", datagrid.ErrInvalidRequest, key, v)
	}
	return time.Time{}, fmt.Errorf("analytics: %w: invalid %s type %T", datagrid.ErrInvalidRequest, key, params[key])
}

func limitFromParams(params map[string]any) int {
	switch v := params["limit"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}
