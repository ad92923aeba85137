package datagrid

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// TableManifestDocument models a YAML/JSON manifest describing tables and
// their sources.
type TableManifestDocument struct {
	Version  string          `json:"version" yaml:"version"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string          `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string          `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Tables   []ManifestTable `json:"tables" yaml:"tables"`
	Source   string          `json:"-" yaml:"-"`
}

// ManifestTable describes a single table entry within a manifest.
type ManifestTable struct {
	Definition  TableDefinition `json:"definition" yaml:"definition"`
	Source      ManifestSource  `json:"source,omitempty" yaml:"source,omitempty"`
	Maintainers []string        `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestSource captures discovery metadata about where a table's records
// come from. Kind is informational (static, http, sql).
type ManifestSource struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Entry   string `json:"entry,omitempty" yaml:"entry,omitempty"`
	Query   string `json:"query,omitempty" yaml:"query,omitempty"`
	DocsURL string `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*TableManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and source metadata from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *TableManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("datagrid: manifest document is nil")
	}
	for _, table := range doc.Tables {
		if err := r.RegisterDefinition(table.Definition); err != nil {
			return fmt.Errorf("datagrid: register table %s from %s: %w", table.Definition.Code, doc.Source, err)
		}
		r.recordSourceMetadata(table.Definition.Code, table.Source)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*TableManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("datagrid: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("datagrid: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*TableManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc TableManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("datagrid: manifest is empty")
		}
		return nil, fmt.Errorf("datagrid: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *TableManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("datagrid: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Tables))
	for idx, table := range doc.Tables {
		if table.Definition.Code == "" {
			return fmt.Errorf("datagrid: manifest table at index %d is missing definition.code", idx)
		}
		if table.Definition.Name == "" {
			return fmt.Errorf("datagrid: manifest table %s missing definition.name", table.Definition.Code)
		}
		if _, exists := seen[table.Definition.Code]; exists {
			return fmt.Errorf("datagrid: manifest duplicates table code %s", table.Definition.Code)
		}
		seen[table.Definition.Code] = struct{}{}
		if err := ValidateDefinition(table.Definition); err != nil {
			return err
		}
	}
	return nil
}

func (doc *TableManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Tables {
		for j := range doc.Tables[i].Definition.Columns {
			col := &doc.Tables[i].Definition.Columns[j]
			if col.Type == "" {
				col.Type = TypeString
			}
			if col.Label == "" {
				col.Label = string(col.Field)
			}
		}
	}
}

func (s ManifestSource) isZero() bool {
	return s == ManifestSource{}
}
