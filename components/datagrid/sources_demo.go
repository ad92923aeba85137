package datagrid

import (
	"context"
	"fmt"
	"time"
)

// DemoWebsitesSource returns static website totals for demos/tests.
type DemoWebsitesSource struct{}

// Fetch implements RecordSource.
func (DemoWebsitesSource) Fetch(context.Context, TableContext) ([]Record, error) {
	created := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	sites := []struct {
		name, domain string
		visitors     int
		pageviews    int
		bounce       float64
		duration     float64
		ageDays      int
	}{
		{"Acme Store", "acme.example", 48210, 151034, 41.2, 184, 0},
		{"Beta Docs", "docs.beta.example", 12650, 58220, 28.9, 311, 35},
		{"Gamma Blog", "gamma.example", 9120, 14480, 63.5, 72, 61},
		{"Delta Portal", "portal.delta.example", 31877, 80312, 37.0, 205, 90},
		{"Épsilon News", "epsilon.example", 5044, 9870, 55.1, 96, 140},
		{"Zeta Labs", "zeta.example", 12650, 40110, 33.3, 240, 182},
	}
	records := make([]Record, 0, len(sites))
	for _, site := range sites {
		records = append(records, Record{
			"name":           site.name,
			"domain":         site.domain,
			"visitors":       site.visitors,
			"pageviews":      site.pageviews,
			"bounce_rate":    site.bounce,
			"visit_duration": site.duration,
			"created_at":     created.AddDate(0, 0, site.ageDays),
		})
	}
	return records, nil
}

// DemoMetricSource returns synthetic metric breakdowns (url, referrer,
// country, browser) for demos/tests.
type DemoMetricSource struct {
	Metric string
}

// Fetch implements RecordSource.
func (s DemoMetricSource) Fetch(_ context.Context, meta TableContext) ([]Record, error) {
	limit := intParam(meta.Params, "limit", 0)
	var records []Record
	switch s.Metric {
	case "url":
		records = []Record{
			{"path": "/", "title": "Home", "visitors": 18500, "pageviews": 26410},
			{"path": "/pricing", "title": "Pricing", "visitors": 7200, "pageviews": 9001},
			{"path": "/docs/getting-started", "title": "Getting started", "visitors": 3100, "pageviews": 5020},
			{"path": "/blog/launch", "title": "Launch week", "visitors": 3100, "pageviews": 3321},
			{"path": "/signup", "title": "Sign up", "visitors": 980, "pageviews": 1012},
		}
	case "referrer":
		records = withShare([]Record{
			{"referrer": "google.com", "visitors": 9800},
			{"referrer": "news.ycombinator.com", "visitors": 2400},
			{"referrer": "github.com", "visitors": 1900},
			{"referrer": "t.co", "visitors": 640},
			{"referrer": nil, "visitors": 5120},
		}, "visitors")
	case "country":
		records = []Record{
			{"country": "United States", "code": "US", "visitors": 11200},
			{"country": "Germany", "code": "DE", "visitors": 4300},
			{"country": "Österreich", "code": "AT", "visitors": 900},
			{"country": "Brazil", "code": "BR", "visitors": 2750},
			{"country": "Japan", "code": "JP", "visitors": 1980},
		}
	case "browser":
		now := time.Now().UTC().Truncate(24 * time.Hour)
		records = []Record{
			{"browser": "Chrome", "visitors": 14200, "last_seen": now},
			{"browser": "Safari", "visitors": 6100, "last_seen": now.AddDate(0, 0, -1)},
			{"browser": "Firefox", "visitors": 2300, "last_seen": now.AddDate(0, 0, -2)},
			{"browser": "Edge", "visitors": 1500, "last_seen": nil},
		}
	default:
		return nil, fmt.Errorf("datagrid: demo source has no metric %q", s.Metric)
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// withShare adds a "share" percentage of field's total to every record.
func withShare(records []Record, field FieldKey) []Record {
	total := Sum(records, field)
	for _, r := range records {
		v, _ := numberValue(r[string(field)])
		if share, ok := ShareOfTotal(v, total); ok {
			r["share"] = share
		}
	}
	return records
}
