package datagrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnHeaderActivateTriStateCycle(t *testing.T) {
	state := SortState{}
	state = OnHeaderActivate(state, "visitors")
	assert.Equal(t, SortState{Field: "visitors", Direction: SortDesc}, state)
	state = OnHeaderActivate(state, "visitors")
	assert.Equal(t, SortState{Field: "visitors", Direction: SortAsc}, state)
	state = OnHeaderActivate(state, "visitors")
	assert.Equal(t, SortState{}, state)
	state = OnHeaderActivate(state, "visitors")
	assert.Equal(t, SortState{Field: "visitors", Direction: SortDesc}, state)
}

func TestOnHeaderActivateNewColumnStartsDescending(t *testing.T) {
	state := SortState{Field: "visitors", Direction: SortAsc}
	next := OnHeaderActivate(state, "name")
	assert.Equal(t, SortState{Field: "name", Direction: SortDesc}, next)
}

func TestOnHeaderActivatePure(t *testing.T) {
	state := SortState{Field: "visitors", Direction: SortDesc}
	a := OnHeaderActivate(state, "visitors")
	b := OnHeaderActivate(state, "visitors")
	assert.Equal(t, a, b)
	assert.Equal(t, SortState{Field: "visitors", Direction: SortDesc}, state)
}

func TestOnHeaderActivateEmptyFieldIsNoop(t *testing.T) {
	state := SortState{Field: "visitors", Direction: SortDesc}
	assert.Equal(t, state, OnHeaderActivate(state, ""))
	assert.Equal(t, SortState{}, OnHeaderActivate(SortState{Field: "visitors"}, ""))
}

func TestHeaderPolicyToggle(t *testing.T) {
	policy := HeaderPolicy{Initial: SortDesc, Cycle: CycleToggle}
	state := policy.Activate(SortState{}, "name")
	assert.Equal(t, SortDesc, state.Direction)
	state = policy.Activate(state, "name")
	assert.Equal(t, SortAsc, state.Direction)
	state = policy.Activate(state, "name")
	assert.Equal(t, SortState{Field: "name", Direction: SortDesc}, state)
}

func TestHeaderPolicyAscendingFirst(t *testing.T) {
	policy := HeaderPolicy{Initial: SortAsc}
	state := policy.Activate(SortState{}, "name")
	assert.Equal(t, SortState{Field: "name", Direction: SortAsc}, state)
	state = policy.Activate(state, "name")
	assert.Equal(t, SortState{Field: "name", Direction: SortDesc}, state)
	state = policy.Activate(state, "name")
	assert.Equal(t, SortState{}, state)
}

func TestHeaderPolicyNormalize(t *testing.T) {
	assert.Equal(t, DefaultHeaderPolicy, HeaderPolicy{}.Normalize())
	assert.Equal(t, HeaderPolicy{Initial: SortAsc, Cycle: CycleToggle}, HeaderPolicy{Initial: SortAsc, Cycle: CycleToggle}.Normalize())
}

func TestHeaderStateFor(t *testing.T) {
	state := SortState{Field: "visitors", Direction: SortAsc}
	assert.Equal(t, HeaderAscending, HeaderStateFor(state, "visitors"))
	assert.Equal(t, HeaderUnsorted, HeaderStateFor(state, "name"))
	assert.Equal(t, HeaderDescending, HeaderStateFor(SortState{Field: "name", Direction: SortDesc}, "name"))
	assert.Equal(t, HeaderUnsorted, HeaderStateFor(SortState{Field: "name"}, "name"))
}
