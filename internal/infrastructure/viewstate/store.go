// Package viewstate keeps opaque per-file view state (scroll position,
// selection) in memory so it survives view destruction within a
// session.
package viewstate

import (
	"sync"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
)

type store struct {
	mu     sync.RWMutex
	states map[string]any
}

// NewStore creates an empty in-memory view-state store.
func NewStore() port.ViewStateStore {
	return &store{states: make(map[string]any)}
}

func (s *store) SetViewState(file entity.FileRef, state any) {
	path := entity.PathOf(file)
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		delete(s.states, path)
		return
	}
	s.states[path] = state
}

func (s *store) ViewState(file entity.FileRef) any {
	path := entity.PathOf(file)
	if path == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[path]
}

func (s *store) SetAllViewStates(states map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, state := range states {
		if path == "" || state == nil {
			continue
		}
		s.states[path] = state
	}
}

func (s *store) AllViewStates() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.states))
	for path, state := range s.states {
		out[path] = state
	}
	return out
}

func (s *store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]any)
}
