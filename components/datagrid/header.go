package datagrid

// CycleMode selects how repeated activation of the same header behaves.
type CycleMode string

const (
	// CycleTriState walks first → second → unsorted.
	CycleTriState CycleMode = "tri-state"
	// CycleToggle flips between the two directions and never unsorts.
	CycleToggle CycleMode = "toggle"
)

// HeaderPolicy configures the header state machine.
type HeaderPolicy struct {
	Initial SortDirection `json:"initial" yaml:"initial"`
	Cycle   CycleMode     `json:"cycle" yaml:"cycle"`
}

// DefaultHeaderPolicy starts new columns descending and cycles
// desc → asc → unsorted.
var DefaultHeaderPolicy = HeaderPolicy{Initial: SortDesc, Cycle: CycleTriState}

// Normalize fills missing policy fields with the defaults.
func (p HeaderPolicy) Normalize() HeaderPolicy {
	if p.Initial != SortAsc && p.Initial != SortDesc {
		p.Initial = DefaultHeaderPolicy.Initial
	}
	if p.Cycle != CycleToggle {
		p.Cycle = CycleTriState
	}
	return p
}

// Activate returns the state that follows a click on field.
func (p HeaderPolicy) Activate(current SortState, field FieldKey) SortState {
	p = p.Normalize()
	current = current.Normalize()
	if field == "" {
		return current
	}
	if field != current.Field {
		return SortState{Field: field, Direction: p.Initial}
	}
	if current.Direction == p.Initial {
		return SortState{Field: field, Direction: opposite(p.Initial)}
	}
	if p.Cycle == CycleToggle {
		return SortState{Field: field, Direction: p.Initial}
	}
	return SortState{}
}

// OnHeaderActivate applies DefaultHeaderPolicy.
func OnHeaderActivate(current SortState, field FieldKey) SortState {
	return DefaultHeaderPolicy.Activate(current, field)
}

// HeaderStateFor reports the observable header state of field.
func HeaderStateFor(state SortState, field FieldKey) HeaderState {
	state = state.Normalize()
	if field == "" || state.Field != field {
		return HeaderUnsorted
	}
	if state.Direction == SortAsc {
		return HeaderAscending
	}
	return HeaderDescending
}

func opposite(dir SortDirection) SortDirection {
	if dir == SortAsc {
		return SortDesc
	}
	return SortAsc
}
