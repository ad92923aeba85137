package datagrid

import "context"

type viewService interface {
	View(ctx context.Context, req ViewRequest) (ViewResult, error)
}

// ControllerOptions wires collaborators into a Controller.
type ControllerOptions struct {
	Service viewService
}

// Controller turns view results into display-ready payloads for the
// presentational layer.
type Controller struct {
	service viewService
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{service: opts.Service}
}

// DisplayPayload is a view result with every cell rendered to a string.
type DisplayPayload struct {
	ViewResult
	Cells   [][]string          `json:"cells"`
	Footer  map[FieldKey]string `json:"footer"`
	Average map[FieldKey]string `json:"average"`
}

// Render resolves the view for a request and formats it for display.
func (c *Controller) Render(ctx context.Context, req ViewRequest) (DisplayPayload, error) {
	if c.service == nil {
		return DisplayPayload{}, nil
	}
	result, err := c.service.View(ctx, req)
	if err != nil {
		return DisplayPayload{}, err
	}
	return FormatResult(result), nil
}

// FormatResult renders every cell and summary value of result.
func FormatResult(result ViewResult) DisplayPayload {
	payload := DisplayPayload{
		ViewResult: result,
		Cells:      make([][]string, 0, len(result.Rows)),
		Footer:     map[FieldKey]string{},
		Average:    map[FieldKey]string{},
	}
	specs := make([]ColumnSpec, len(result.Columns))
	for i, col := range result.Columns {
		specs[i] = ColumnSpec{Field: col.Field, Type: col.Type, Format: col.Format}
	}
	for _, row := range result.Rows {
		cells := make([]string, len(specs))
		for i, spec := range specs {
			cells[i] = FormatValue(spec, row[string(spec.Field)])
		}
		payload.Cells = append(payload.Cells, cells)
	}
	for _, spec := range specs {
		if spec.Type != TypeNumber {
			continue
		}
		if sum, ok := result.Summary.Sums[spec.Field]; ok {
			payload.Footer[spec.Field] = FormatValue(summarySpec(spec), sum)
		} else {
			payload.Footer[spec.Field] = EmptyValue
		}
		if avg, ok := result.Summary.Average(spec.Field); ok {
			payload.Average[spec.Field] = FormatValue(summarySpec(spec), avg)
		} else {
			payload.Average[spec.Field] = EmptyValue
		}
	}
	return payload
}

// summarySpec keeps percent/duration formats for aggregates and renders
// everything else as a plain number.
func summarySpec(spec ColumnSpec) ColumnSpec {
	switch spec.Format {
	case "percent", "duration", "compact":
		return spec
	}
	spec.Format = "number"
	return spec
}
