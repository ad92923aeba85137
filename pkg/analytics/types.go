package analytics

import "time"

// Window bounds a stats query. Zero values mean "last 30 days".
type Window struct {
	StartAt time.Time
	EndAt   time.Time
}

// DefaultWindowDays is the lookback used when a Window is empty.
const DefaultWindowDays = 30

// Resolve fills missing bounds relative to now.
func (w Window) Resolve(now time.Time) Window {
	if w.EndAt.IsZero() {
		w.EndAt = now
	}
	if w.StartAt.IsZero() {
		w.StartAt = w.EndAt.AddDate(0, 0, -DefaultWindowDays)
	}
	return w
}

// Website is a tracked site with aggregated stats for a window.
type Website struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	Stats     Stats     `json:"stats"`
}

// Stats are the raw counters reported by the backend.
type Stats struct {
	Pageviews int64 `json:"pageviews"`
	Visitors  int64 `json:"visitors"`
	Visits    int64 `json:"visits"`
	Bounces   int64 `json:"bounces"`
	// TotalTime is the summed visit time in seconds.
	TotalTime int64 `json:"totaltime"`
}

// BounceRate returns bounces per visit as a percentage.
func (s Stats) BounceRate() (float64, bool) {
	if s.Visits <= 0 {
		return 0, false
	}
	return float64(s.Bounces) / float64(s.Visits) * 100, true
}

// AverageVisitDuration returns seconds per visit.
func (s Stats) AverageVisitDuration() (float64, bool) {
	if s.Visits <= 0 {
		return 0, false
	}
	return float64(s.TotalTime) / float64(s.Visits), true
}

// MetricsQuery selects a breakdown for one website.
type MetricsQuery struct {
	WebsiteID string
	Type      string
	Window    Window
	Limit     int
}

// MetricValue is a single breakdown bucket; X is the dimension value
// (path, referrer, country code...) and Y the visitor count.
type MetricValue struct {
	X *string `json:"x"`
	Y int64   `json:"y"`
}
