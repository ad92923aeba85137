package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-datagrid/components/datagrid"
)

type scaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified table code (e.g. acme.table.pages)."`
	Name         string   `help:"Display name for the table (derived from the code when empty)."`
	Description  string   `help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Table category (analytics, ops, etc.)."`
	ManifestPath string   `required:"" type:"path" help:"Path to the table manifest YAML/JSON file to update."`
	Column       []string `help:"Columns as field[:type[:format]] (repeat the flag); append '+search' to the field to make it searchable."`
	SortField    string   `help:"Default sort field."`
	SortDir      string   `default:"desc" enum:"asc,desc" help:"Default sort direction."`
	Role         []string `help:"Roles allowed to see the table."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	SourceKind   string   `default:"static" enum:"static,http,sql" help:"Record source kind recorded in the manifest."`
	SourceEntry  string   `help:"Factory or endpoint backing the source."`
	SourceQuery  string   `help:"SQL query for sql sources."`
	DocsURL      string   `help:"Link to source documentation."`
	Overwrite    bool     `help:"Overwrite an existing manifest entry if present."`

	out io.Writer
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("gridctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, table := range doc.Tables {
			if table.Definition.Code == cmd.Code {
				return fmt.Errorf("gridctl: manifest already defines table %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	entry, err := cmd.entry()
	if err != nil {
		return err
	}
	if err := datagrid.ValidateDefinition(entry.Definition); err != nil {
		return err
	}
	doc.Tables = upsertTable(doc.Tables, entry)

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "✓ Added %s (%d columns) to %s\n", cmd.Code, len(entry.Definition.Columns), manifestPath)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("gridctl: table code %s must contain at least one '.' segment", cmd.Code)
	}
	if len(cmd.Column) == 0 {
		return errors.New("gridctl: at least one --column is required")
	}
	return nil
}

func (cmd *scaffoldCmd) entry() (datagrid.ManifestTable, error) {
	columns := make(datagrid.Columns, 0, len(cmd.Column))
	for _, raw := range cmd.Column {
		col, err := parseColumn(raw)
		if err != nil {
			return datagrid.ManifestTable{}, err
		}
		columns = append(columns, col)
	}
	name := cmd.Name
	if name == "" {
		name = labelFor(lastSegment(cmd.Code))
	}
	def := datagrid.TableDefinition{
		Code:        cmd.Code,
		Name:        name,
		Description: cmd.Description,
		Category:    cmd.Category,
		Columns:     columns,
		Roles:       cmd.Role,
	}
	if cmd.SortField != "" {
		def.DefaultSort = datagrid.SortState{
			Field:     datagrid.FieldKey(cmd.SortField),
			Direction: datagrid.SortDirection(cmd.SortDir),
		}
	}
	return datagrid.ManifestTable{
		Definition: def,
		Source: datagrid.ManifestSource{
			Name:    fmt.Sprintf("%s Source", name),
			Kind:    cmd.SourceKind,
			Entry:   cmd.SourceEntry,
			Query:   cmd.SourceQuery,
			DocsURL: cmd.DocsURL,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}, nil
}

// parseColumn reads field[:type[:format]]. A "+search" suffix on the field
// marks the column searchable.
func parseColumn(raw string) (datagrid.ColumnSpec, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	field := parts[0]
	searchable := strings.HasSuffix(field, "+search")
	field = strings.TrimSuffix(field, "+search")
	if field == "" {
		return datagrid.ColumnSpec{}, fmt.Errorf("gridctl: column %q is missing a field", raw)
	}
	col := datagrid.ColumnSpec{
		Field:      datagrid.FieldKey(strcase.ToSnake(field)),
		Label:      labelFor(field),
		Type:       datagrid.TypeString,
		Searchable: searchable,
	}
	if len(parts) > 1 && parts[1] != "" {
		col.Type = datagrid.ComparableType(strings.ToLower(parts[1]))
		if !col.Type.Valid() {
			return datagrid.ColumnSpec{}, fmt.Errorf("gridctl: column %s has unknown type %q", field, parts[1])
		}
	}
	if len(parts) > 2 {
		col.Format = parts[2]
	}
	if len(parts) > 3 {
		return datagrid.ColumnSpec{}, fmt.Errorf("gridctl: column %q has too many segments", raw)
	}
	return col, nil
}

func upsertTable(tables []datagrid.ManifestTable, entry datagrid.ManifestTable) []datagrid.ManifestTable {
	replaced := false
	for idx := range tables {
		if tables[idx].Definition.Code == entry.Definition.Code {
			tables[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		tables = append(tables, entry)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Definition.Code < tables[j].Definition.Code
	})
	return tables
}

func loadOrInitManifest(path string) (*datagrid.TableManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &datagrid.TableManifestDocument{
				Version: datagrid.ManifestVersion,
				Tables:  []datagrid.ManifestTable{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("gridctl: stat manifest: %w", err)
	}
	return datagrid.ReadManifest(path)
}

func writeManifest(path string, doc *datagrid.TableManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("gridctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("gridctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("gridctl: write manifest: %w", err)
	}
	return encoder.Close()
}

func labelFor(field string) string {
	words := strings.Fields(strings.ReplaceAll(strcase.ToSnake(field), "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func lastSegment(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		return code
	}
	return slug
}
