package datagrid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// MaxQueryLength bounds the search query accepted from transports.
const MaxQueryLength = 256

// RequestValidator validates view/state requests against a table definition.
type RequestValidator interface {
	Validate(def TableDefinition, request map[string]any) error
}

// JSONSchemaValidator compiles per-table request schemas derived from the
// column list.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the request satisfies the table's request schema.
func (v *JSONSchemaValidator) Validate(def TableDefinition, request map[string]any) error {
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var payload map[string]any
	if request == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("datagrid: marshal request for %s: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("datagrid: normalize request for %s: %w", def.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: table %s: %v", ErrInvalidRequest, def.Code, err)
	}
	return nil
}

// Forget drops a compiled schema, e.g. after the definition changed.
func (v *JSONSchemaValidator) Forget(code string) {
	v.mu.Lock()
	delete(v.compiled, code)
	v.mu.Unlock()
}

func (v *JSONSchemaValidator) schemaFor(def TableDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(RequestSchema(def))
	if err != nil {
		return nil, fmt.Errorf("datagrid: marshal schema %s: %w", def.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Code + ".request.json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("datagrid: load schema %s: %w", def.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("datagrid: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// RequestSchema returns the JSON schema for view requests against def.
func RequestSchema(def TableDefinition) map[string]any {
	fields := []any{""}
	for _, col := range def.Columns {
		fields = append(fields, string(col.Field))
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":      "string",
				"maxLength": MaxQueryLength,
			},
			"sort": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"field":     map[string]any{"enum": fields},
					"direction": map[string]any{"enum": []any{"", string(SortAsc), string(SortDesc)}},
				},
				"additionalProperties": false,
			},
			"field": map[string]any{"enum": fields},
			"params": map[string]any{
				"type": "object",
			},
		},
		"additionalProperties": false,
	}
}
