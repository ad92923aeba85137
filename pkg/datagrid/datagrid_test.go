package datagrid_test

import (
	"context"
	"testing"

	core "github.com/goliatone/go-datagrid/components/datagrid"
	"github.com/goliatone/go-datagrid/pkg/datagrid"
)

func TestFacadeNewService(t *testing.T) {
	service := datagrid.NewService(datagrid.Options{})
	tables := service.Tables(context.Background(), core.ViewerContext{})
	if len(tables) != len(core.DefaultTableDefinitions()) {
		t.Fatalf("expected default tables, got %d", len(tables))
	}
}

func TestFacadeComputeView(t *testing.T) {
	columns := datagrid.Columns{
		{Field: "name", Type: core.TypeString},
		{Field: "visitors", Type: core.TypeNumber},
	}
	records := []datagrid.Record{
		{"name": "b", "visitors": 1},
		{"name": "a", "visitors": 2},
		{"name": "c", "visitors": 3},
	}
	out := datagrid.ComputeView(records, "", []datagrid.FieldKey{"name"}, datagrid.SortState{Field: "visitors", Direction: core.SortDesc}, columns)
	if len(out) != 3 || out[0]["name"] != "c" || out[2]["name"] != "b" {
		t.Fatalf("unexpected order %#v", out)
	}
}
