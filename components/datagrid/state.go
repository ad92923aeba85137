package datagrid

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStateStore keeps per-viewer table state for the process lifetime.
type InMemoryStateStore struct {
	mu   sync.RWMutex
	data map[string]TableState
}

// NewInMemoryStateStore creates an empty state store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		data: make(map[string]TableState),
	}
}

// TableState returns the stored state for the viewer, if any. Anonymous
// viewers never have stored state.
func (s *InMemoryStateStore) TableState(_ context.Context, viewer ViewerContext, code string) (TableState, bool, error) {
	if viewer.UserID == "" {
		return TableState{}, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data[s.key(viewer, code)]
	return state, ok, nil
}

// SaveTableState stores state for a viewer.
func (s *InMemoryStateStore) SaveTableState(_ context.Context, viewer ViewerContext, code string, state TableState) error {
	if viewer.UserID == "" {
		return fmt.Errorf("state store requires viewer user id")
	}
	state.Sort = state.Sort.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(viewer, code)] = state
	return nil
}

// ClearTableState removes stored state for a viewer.
func (s *InMemoryStateStore) ClearTableState(_ context.Context, viewer ViewerContext, code string) error {
	if viewer.UserID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, s.key(viewer, code))
	return nil
}

func (s *InMemoryStateStore) key(viewer ViewerContext, code string) string {
	return viewer.UserID + "::" + code
}
