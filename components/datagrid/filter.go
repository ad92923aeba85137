package datagrid

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records where any of the searchable fields contains the
// query as a case-folded substring. An empty (or blank) query keeps every
// record. The input slice is never modified.
func Filter(records []Record, query string, searchableFields []FieldKey) []Record {
	out := make([]Record, 0, len(records))
	if strings.TrimSpace(query) == "" {
		return append(out, records...)
	}
	folder := cases.Fold()
	needle := folder.String(query)
	for _, record := range records {
		if matchesAny(record, needle, searchableFields, folder) {
			out = append(out, record)
		}
	}
	return out
}

func matchesAny(record Record, needle string, fields []FieldKey, folder cases.Caser) bool {
	if record == nil {
		return false
	}
	for _, field := range fields {
		value, ok := displayString(record[string(field)])
		if !ok {
			continue
		}
		if strings.Contains(folder.String(value), needle) {
			return true
		}
	}
	return false
}

// SearchableFields returns the columns flagged searchable, or every string
// column when none is flagged.
func SearchableFields(columns Columns) []FieldKey {
	var fields []FieldKey
	for _, col := range columns {
		if col.Searchable {
			fields = append(fields, col.Field)
		}
	}
	if len(fields) > 0 {
		return fields
	}
	for _, col := range columns {
		if col.Type == TypeString {
			fields = append(fields, col.Field)
		}
	}
	return fields
}
