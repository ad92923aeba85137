package datagrid

import (
	"errors"
	"strings"
	"testing"
)

func testDefinition() TableDefinition {
	return TableDefinition{
		Code: "test.table.sites",
		Name: "Sites",
		Columns: Columns{
			{Field: "name", Label: "Name", Type: TypeString, Searchable: true},
			{Field: "visitors", Label: "Visitors", Type: TypeNumber},
		},
		DefaultSort: SortState{Field: "visitors", Direction: SortDesc},
	}
}

func TestJSONSchemaValidatorAcceptsKnownColumns(t *testing.T) {
	v := NewJSONSchemaValidator()
	def := testDefinition()
	if err := v.Validate(def, requestPayload(TableState{Query: "acme", Sort: SortState{Field: "visitors", Direction: SortAsc}}, nil)); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if err := v.Validate(def, requestPayload(TableState{}, map[string]any{"limit": 5})); err != nil {
		t.Fatalf("expected unsorted request to be valid, got %v", err)
	}
	if err := v.Validate(def, nil); err != nil {
		t.Fatalf("expected empty request to be valid, got %v", err)
	}
}

func TestJSONSchemaValidatorRejectsUnknownColumn(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(testDefinition(), requestPayload(TableState{Sort: SortState{Field: "revenue", Direction: SortAsc}}, nil))
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestJSONSchemaValidatorRejectsBadDirection(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(testDefinition(), map[string]any{
		"sort": map[string]any{"field": "name", "direction": "sideways"},
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestJSONSchemaValidatorRejectsLongQuery(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(testDefinition(), map[string]any{"query": strings.Repeat("a", MaxQueryLength+1)})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestJSONSchemaValidatorRejectsUnknownProperty(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(testDefinition(), map[string]any{"page": 2})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestJSONSchemaValidatorForgetRecompiles(t *testing.T) {
	v := NewJSONSchemaValidator()
	def := testDefinition()
	payload := requestPayload(TableState{Sort: SortState{Field: "country", Direction: SortAsc}}, nil)
	if err := v.Validate(def, payload); err == nil {
		t.Fatalf("expected unknown column to fail")
	}
	def.Columns = append(def.Columns, ColumnSpec{Field: "country", Type: TypeString})
	if err := v.Validate(def, payload); err == nil {
		t.Fatalf("expected cached schema to still reject column")
	}
	v.Forget(def.Code)
	if err := v.Validate(def, payload); err != nil {
		t.Fatalf("expected recompiled schema to accept column, got %v", err)
	}
}

type noopRequestValidator struct{}

func (noopRequestValidator) Validate(TableDefinition, map[string]any) error { return nil }
