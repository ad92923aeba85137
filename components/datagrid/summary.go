package datagrid

// SummaryRow aggregates the currently filtered records. Averages over an
// empty set, and any sum or average that is not finite, are omitted so the
// row always encodes as JSON.
type SummaryRow struct {
	Count    int                  `json:"count"`
	Sums     map[FieldKey]float64 `json:"sums"`
	Averages map[FieldKey]float64 `json:"averages"`
}

// Average reports the average for field and whether it is defined.
func (s SummaryRow) Average(field FieldKey) (float64, bool) {
	v, ok := s.Averages[field]
	return v, ok
}

// Count returns the number of records.
func Count(records []Record) int {
	return len(records)
}

// CountWhere counts records matching pred. A nil predicate counts nothing.
func CountWhere(records []Record, pred func(Record) bool) int {
	if pred == nil {
		return 0
	}
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// Sum adds the numeric values of field. Missing values contribute nothing.
func Sum(records []Record, field FieldKey) float64 {
	total, _ := sumDefined(records, field)
	return total
}

// Average returns the mean of the defined values of field. The second result
// is false when no record has a value or the mean is not finite, in which
// case the value is 0.
func Average(records []Record, field FieldKey) (float64, bool) {
	total, n := sumDefined(records, field)
	if n == 0 {
		return 0, false
	}
	avg := total / float64(n)
	if !finite(avg) {
		return 0, false
	}
	return avg, true
}

func sumDefined(records []Record, field FieldKey) (float64, int) {
	var total float64
	n := 0
	for _, r := range records {
		if v, ok := numberValue(r[string(field)]); ok {
			total += v
			n++
		}
	}
	return total, n
}

// Summarize builds a summary row over filtered for every number column.
func Summarize(filtered []Record, columns Columns) SummaryRow {
	row := SummaryRow{
		Count:    len(filtered),
		Sums:     map[FieldKey]float64{},
		Averages: map[FieldKey]float64{},
	}
	for _, col := range columns {
		if col.Type != TypeNumber {
			continue
		}
		if sum := Sum(filtered, col.Field); finite(sum) {
			row.Sums[col.Field] = sum
		}
		if avg, ok := Average(filtered, col.Field); ok {
			row.Averages[col.Field] = avg
		}
	}
	return row
}
