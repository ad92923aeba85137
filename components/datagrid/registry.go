package datagrid

import (
	"fmt"
	"sort"
	"sync"
)

// TableHook lets packages register tables/sources during init().
type TableHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []TableHook
)

// RegisterTableHook registers a hook executed against new registries.
func RegisterTableHook(h TableHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// TableRegistry stores table definitions and their record sources.
type TableRegistry interface {
	RegisterDefinition(def TableDefinition) error
	RegisterSource(code string, source RecordSource) error
	Definition(code string) (TableDefinition, bool)
	Source(code string) (RecordSource, bool)
	Definitions() []TableDefinition
}

// Registry implements TableRegistry with hook + manifest support.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]TableDefinition
	sources      map[string]RecordSource
	manifestMeta map[string]ManifestSource
}

// NewRegistry builds a registry seeded with the default analytics tables and
// applies global hooks.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{
		definitions:  map[string]TableDefinition{},
		sources:      map[string]RecordSource{},
		manifestMeta: map[string]ManifestSource{},
	}
}

func (r *Registry) registerDefaults() {
	sources := DefaultSources()
	for _, def := range DefaultTableDefinitions() {
		_ = r.RegisterDefinition(def)
		if source, ok := sources[def.Code]; ok {
			_ = r.RegisterSource(def.Code, source)
		}
	}
}

// ApplyHooks executes registered table hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition validates and stores a table definition.
func (r *Registry) RegisterDefinition(def TableDefinition) error {
	if err := ValidateDefinition(def); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterSource associates a record source with a definition.
func (r *Registry) RegisterSource(code string, source RecordSource) error {
	if code == "" {
		return fmt.Errorf("datagrid: table code is required to register source")
	}
	if source == nil {
		return fmt.Errorf("datagrid: source cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("datagrid: table %s: %w", code, ErrTableNotFound)
	}
	r.sources[code] = source
	return nil
}

// Definition fetches a table definition by code.
func (r *Registry) Definition(code string) (TableDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Source fetches a record source by code.
func (r *Registry) Source(code string) (RecordSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.sources[code]
	return source, ok
}

// SourceMetadata returns any manifest metadata registered for a table.
func (r *Registry) SourceMetadata(code string) (ManifestSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns all registered definitions ordered by code.
func (r *Registry) Definitions() []TableDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]TableDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Code < defs[j].Code
	})
	return defs
}

func (r *Registry) recordSourceMetadata(code string, meta ManifestSource) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}

// ValidateDefinition checks the static configuration of a table.
func ValidateDefinition(def TableDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("datagrid: table definition code is required")
	}
	if len(def.Columns) == 0 {
		return fmt.Errorf("datagrid: table %s declares no columns", def.Code)
	}
	seen := make(map[FieldKey]struct{}, len(def.Columns))
	for idx, col := range def.Columns {
		if col.Field == "" {
			return fmt.Errorf("datagrid: table %s column %d is missing field", def.Code, idx)
		}
		if !col.Type.Valid() {
			return fmt.Errorf("datagrid: table %s column %s has unknown type %q", def.Code, col.Field, col.Type)
		}
		if _, dup := seen[col.Field]; dup {
			return fmt.Errorf("datagrid: table %s duplicates column %s", def.Code, col.Field)
		}
		seen[col.Field] = struct{}{}
	}
	if def.DefaultSort.Field != "" {
		if _, ok := seen[def.DefaultSort.Field]; !ok {
			return fmt.Errorf("datagrid: table %s default sort %s: %w", def.Code, def.DefaultSort.Field, ErrUnknownColumn)
		}
	}
	return nil
}
