package datagrid

import (
	"context"
	"errors"
	"testing"
)

type stubViewService struct {
	result ViewResult
	err    error
	last   ViewRequest
}

func (s *stubViewService) View(_ context.Context, req ViewRequest) (ViewResult, error) {
	s.last = req
	return s.result, s.err
}

func TestControllerRenderFormatsCells(t *testing.T) {
	stub := &stubViewService{result: ViewResult{
		Table: "t",
		Columns: []ColumnView{
			{Field: "name", Type: TypeString},
			{Field: "visitors", Type: TypeNumber, Format: "number"},
			{Field: "bounce_rate", Type: TypeNumber, Format: "percent"},
		},
		Rows: []Record{
			{"name": "Acme", "visitors": 48210, "bounce_rate": 41.2},
			{"name": nil, "visitors": 1200},
		},
		Summary: SummaryRow{
			Count:    2,
			Sums:     map[FieldKey]float64{"visitors": 49410, "bounce_rate": 41.2},
			Averages: map[FieldKey]float64{"visitors": 24705},
		},
	}}
	controller := NewController(ControllerOptions{Service: stub})
	payload, err := controller.Render(context.Background(), ViewRequest{TableCode: "t"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if stub.last.TableCode != "t" {
		t.Fatalf("expected request forwarded, got %#v", stub.last)
	}
	if len(payload.Cells) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(payload.Cells))
	}
	if payload.Cells[0][1] != "48,210" || payload.Cells[0][2] != "41.2%" {
		t.Fatalf("unexpected formatted row %v", payload.Cells[0])
	}
	if payload.Cells[1][0] != EmptyValue || payload.Cells[1][2] != EmptyValue {
		t.Fatalf("expected missing values rendered as %q, got %v", EmptyValue, payload.Cells[1])
	}
	if payload.Footer["visitors"] != "49,410" {
		t.Fatalf("unexpected footer %v", payload.Footer)
	}
	if payload.Average["visitors"] != "24,705" || payload.Average["bounce_rate"] != EmptyValue {
		t.Fatalf("unexpected averages %v", payload.Average)
	}
	if _, ok := payload.Footer["name"]; ok {
		t.Fatalf("expected no footer for string column")
	}
}

func TestControllerRenderPropagatesErrors(t *testing.T) {
	stub := &stubViewService{err: ErrTableNotFound}
	controller := NewController(ControllerOptions{Service: stub})
	if _, err := controller.Render(context.Background(), ViewRequest{}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestControllerRenderWithoutService(t *testing.T) {
	controller := NewController(ControllerOptions{})
	payload, err := controller.Render(context.Background(), ViewRequest{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if payload.Cells != nil {
		t.Fatalf("expected empty payload, got %#v", payload)
	}
}
