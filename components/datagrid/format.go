package datagrid

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// EmptyValue is displayed for undefined metrics.
const EmptyValue = "—"

// FormatNumber renders n with thousands separators, rounded to an integer.
func FormatNumber(n float64) string {
	if !finite(n) {
		return EmptyValue
	}
	return humanize.Comma(int64(math.Round(n)))
}

// FormatCompact renders n using SI suffixes (1.2k, 3.4M).
func FormatCompact(n float64) string {
	if !finite(n) {
		return EmptyValue
	}
	if math.Abs(n) < 1000 {
		return FormatNumber(n)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(n, 1, ""), " ", "")
}

// FormatPercent renders part/total as a percentage with one decimal.
func FormatPercent(part, total float64) string {
	share, ok := ShareOfTotal(part, total)
	if !ok {
		return EmptyValue
	}
	return fmt.Sprintf("%.1f%%", share)
}

// ShareOfTotal returns part as a percentage of total. Zero totals are undefined.
func ShareOfTotal(part, total float64) (float64, bool) {
	if total == 0 || !finite(part) || !finite(total) {
		return 0, false
	}
	return part / total * 100, true
}

// Delta returns the relative change from previous to current in percent.
func Delta(current, previous float64) (float64, bool) {
	if previous == 0 || !finite(current) || !finite(previous) {
		return 0, false
	}
	return (current - previous) / math.Abs(previous) * 100, true
}

// FormatDelta renders the signed change from previous to current.
func FormatDelta(current, previous float64) string {
	delta, ok := Delta(current, previous)
	if !ok {
		return EmptyValue
	}
	return fmt.Sprintf("%+.1f%%", delta)
}

// FormatDuration renders seconds as "1h 02m", "1m 05s" or "42s".
func FormatDuration(seconds float64) string {
	if !finite(seconds) || seconds < 0 {
		return EmptyValue
	}
	d := time.Duration(math.Round(seconds)) * time.Second
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatValue renders a record value using the column's format hint.
func FormatValue(col ColumnSpec, v any) string {
	switch col.Format {
	case "number":
		if n, ok := numberValue(v); ok {
			return FormatNumber(n)
		}
	case "compact":
		if n, ok := numberValue(v); ok {
			return FormatCompact(n)
		}
	case "percent":
		if n, ok := numberValue(v); ok {
			return fmt.Sprintf("%.1f%%", n)
		}
	case "duration":
		if n, ok := numberValue(v); ok {
			return FormatDuration(n)
		}
	case "date":
		if ms, ok := dateValue(v); ok {
			return time.UnixMilli(ms).UTC().Format(time.DateOnly)
		}
	default:
		if s, ok := displayString(v); ok {
			return s
		}
	}
	return EmptyValue
}

// RowDelays maps row indexes to staggered transition delays, capped at max.
func RowDelays(n int, step, max time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	out := make([]time.Duration, n)
	for i := range out {
		d := time.Duration(i) * step
		if max > 0 && d > max {
			d = max
		}
		out[i] = d
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
