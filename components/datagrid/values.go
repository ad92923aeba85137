package datagrid

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
}

// numberValue coerces v into a float64. NaN and non-numeric values are
// reported as missing.
func numberValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// dateValue coerces v into epoch milliseconds. Integers are taken as epoch
// milliseconds already.
func dateValue(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case time.Time:
		if t.IsZero() {
			return 0, false
		}
		return t.UnixMilli(), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return 0, false
		}
		return t.UnixMilli(), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UnixMilli(), true
			}
		}
		return 0, false
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		f, ok := numberValue(t)
		if !ok || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// displayString renders a value the way search matches it. Missing values
// report false.
func displayString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.DateOnly), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return "", false
		}
		return t.Format(time.DateOnly), true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		if math.IsNaN(float64(t)) {
			return "", false
		}
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	}
	return "", false
}
