package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

const cliViewer = "gridctl"

type viewCmd struct {
	Records  string   `arg:"" type:"existingfile" help:"YAML or JSON file holding a list of records."`
	Manifest string   `type:"existingfile" help:"Manifest providing the table definition (columns are inferred when omitted)."`
	Table    string   `help:"Table code to use from the manifest (defaults to the first table)."`
	Query    string   `short:"q" help:"Search query applied to searchable columns."`
	Sort     string   `short:"s" help:"Field to sort by."`
	Dir      string   `default:"desc" enum:"asc,desc" help:"Sort direction when --sort is set."`
	Locale   string   `default:"en" help:"Locale used for string collation and labels."`
	Output   string   `short:"o" default:"table" enum:"table,json" help:"Output format."`
	Param    []string `help:"Source params as key=value pairs."`

	out io.Writer
}

func (cmd *viewCmd) Run(ctx context.Context) error {
	records, err := readRecords(cmd.Records)
	if err != nil {
		return err
	}
	def, err := cmd.definition(records)
	if err != nil {
		return err
	}

	registry := datagrid.NewEmptyRegistry()
	if err := registry.RegisterDefinition(def); err != nil {
		return fmt.Errorf("gridctl: register table: %w", err)
	}
	if err := registry.RegisterSource(def.Code, datagrid.StaticSource(records)); err != nil {
		return fmt.Errorf("gridctl: register source: %w", err)
	}
	service := datagrid.NewService(datagrid.Options{Registry: registry})

	req := datagrid.ViewRequest{
		Viewer:    datagrid.ViewerContext{UserID: cliViewer, Locale: cmd.Locale},
		TableCode: def.Code,
		Query:     &cmd.Query,
		Params:    parseParams(cmd.Param),
	}
	if cmd.Sort != "" {
		req.Sort = &datagrid.SortState{Field: datagrid.FieldKey(cmd.Sort), Direction: datagrid.SortDirection(cmd.Dir)}
	}
	result, err := service.View(ctx, req)
	if err != nil {
		return err
	}
	payload := datagrid.FormatResult(result)

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	if cmd.Output == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}
	return printTable(out, payload)
}

func (cmd *viewCmd) definition(records []datagrid.Record) (datagrid.TableDefinition, error) {
	if cmd.Manifest == "" {
		return datagrid.TableDefinition{
			Code:    "gridctl.table.local",
			Name:    "Records",
			Columns: inferColumns(records),
		}, nil
	}
	doc, err := datagrid.ReadManifest(cmd.Manifest)
	if err != nil {
		return datagrid.TableDefinition{}, err
	}
	if len(doc.Tables) == 0 {
		return datagrid.TableDefinition{}, fmt.Errorf("gridctl: manifest %s defines no tables", cmd.Manifest)
	}
	if cmd.Table == "" {
		return doc.Tables[0].Definition, nil
	}
	for _, table := range doc.Tables {
		if table.Definition.Code == cmd.Table {
			return table.Definition, nil
		}
	}
	return datagrid.TableDefinition{}, fmt.Errorf("gridctl: table %s not found in %s: %w", cmd.Table, cmd.Manifest, datagrid.ErrTableNotFound)
}

func readRecords(path string) ([]datagrid.Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("gridctl: read records: %w", err)
	}
	// yaml.v3 decodes JSON documents as well.
	var records []datagrid.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("gridctl: parse records %s: %w", path, err)
	}
	return records, nil
}

// inferColumns derives columns from the record keys in sorted order. A field
// whose defined values are all numeric becomes a number column, everything
// else a searchable string column.
func inferColumns(records []datagrid.Record) datagrid.Columns {
	numeric := map[string]bool{}
	for _, record := range records {
		for key, value := range record {
			isNumber := isNumeric(value)
			if value == nil {
				isNumber = true
			}
			if prev, seen := numeric[key]; seen {
				numeric[key] = prev && isNumber
			} else {
				numeric[key] = isNumber
			}
		}
	}
	keys := make([]string, 0, len(numeric))
	for key := range numeric {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	columns := make(datagrid.Columns, 0, len(keys))
	for _, key := range keys {
		col := datagrid.ColumnSpec{Field: datagrid.FieldKey(key), Label: labelFor(key), Type: datagrid.TypeString, Searchable: true}
		if numeric[key] {
			col.Type = datagrid.TypeNumber
			col.Searchable = false
			col.Format = "number"
		}
		columns = append(columns, col)
	}
	return columns
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int64, uint64, float64:
		return true
	}
	return false
}

func parseParams(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		params[key] = strings.TrimSpace(value)
	}
	return params
}

func printTable(w io.Writer, payload datagrid.DisplayPayload) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(payload.Columns))
	for i, col := range payload.Columns {
		headers[i] = col.Label + headerMarker(col.State)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range payload.Cells {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	footer := make([]string, len(payload.Columns))
	for i, col := range payload.Columns {
		switch {
		case i == 0 && col.Type != datagrid.TypeNumber:
			footer[i] = "Total"
		case col.Type == datagrid.TypeNumber:
			footer[i] = payload.Footer[col.Field]
		}
	}
	fmt.Fprintln(tw, strings.Join(footer, "\t"))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("gridctl: write table: %w", err)
	}
	_, err := fmt.Fprintf(w, "%s of %s rows (query %q)\n",
		humanize.Comma(int64(payload.Matched)), humanize.Comma(int64(payload.Total)), payload.State.Query)
	return err
}

func headerMarker(state datagrid.HeaderState) string {
	switch state {
	case datagrid.HeaderAscending:
		return " ▲"
	case datagrid.HeaderDescending:
		return " ▼"
	}
	return ""
}
