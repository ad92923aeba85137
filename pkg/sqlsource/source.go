// Package sqlsource serves table records from a SQL query.
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Open opens a sqlite database for use with Source.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("sqlsource: dsn is required")
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: open %s: %w", dsn, err)
	}
	return db, nil
}

// Source runs Query on every fetch and maps each row to a Record keyed by
// column name. Args are bound first, followed by the values of ParamArgs
// looked up in the request params (nil when missing).
type Source struct {
	DB        *sql.DB
	Query     string
	Args      []any
	ParamArgs []string
}

var _ datagrid.RecordSource = (*Source)(nil)

// Fetch implements datagrid.RecordSource.
func (s *Source) Fetch(ctx context.Context, meta datagrid.TableContext) ([]datagrid.Record, error) {
	if s.DB == nil {
		return nil, errors.New("sqlsource: db is required")
	}
	if s.Query == "" {
		return nil, errors.New("sqlsource: query is required")
	}
	args := make([]any, 0, len(s.Args)+len(s.ParamArgs))
	args = append(args, s.Args...)
	for _, key := range s.ParamArgs {
		args = append(args, meta.Params[key])
	}
	rows, err := s.DB.QueryContext(ctx, s.Query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: query %s: %w", meta.Definition.Code, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]datagrid.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlsource: columns: %w", err)
	}
	records := []datagrid.Record{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlsource: scan: %w", err)
		}
		record := make(datagrid.Record, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				record[name] = string(b)
				continue
			}
			record[name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlsource: rows: %w", err)
	}
	return records, nil
}
