package entity

import (
	"sort"
	"time"
)

// LayoutStateVersion is the current schema version for persisted
// layout state. Increment when making breaking changes to the
// serialization format.
const LayoutStateVersion = 1

// PaneEntryState captures one working-set entry of a pane for
// persistence. Untitled files are never captured since they cannot be
// reopened from disk.
type PaneEntryState struct {
	Path      string `json:"path"`
	Active    bool   `json:"active"`
	ViewState any    `json:"view_state,omitempty"`
}

// LayoutState is a complete snapshot of the workspace layout,
// produced at project close and consumed at project open.
// This is serialized to JSON and stored in the database.
type LayoutState struct {
	Version      int                         `json:"version"`
	Orientation  Orientation                 `json:"orientation"`
	ActivePaneID string                      `json:"active_pane_id"`
	Panes        map[string][]PaneEntryState `json:"panes"`
	SavedAt      time.Time                   `json:"saved_at"`
}

// NewLayoutState creates an empty snapshot at the current version.
func NewLayoutState() *LayoutState {
	return &LayoutState{
		Version: LayoutStateVersion,
		Panes:   make(map[string][]PaneEntryState),
		SavedAt: time.Now(),
	}
}

// CountEntries returns the total number of working-set entries across
// all panes in the snapshot.
func (s *LayoutState) CountEntries() int {
	count := 0
	for _, entries := range s.Panes {
		count += len(entries)
	}
	return count
}

// PaneIDs returns the pane ids present in the snapshot, active pane
// first, for deterministic restore order.
func (s *LayoutState) PaneIDs() []string {
	ids := make([]string, 0, len(s.Panes))
	if _, ok := s.Panes[s.ActivePaneID]; ok {
		ids = append(ids, s.ActivePaneID)
	}
	rest := make([]string, 0, len(s.Panes))
	for id := range s.Panes {
		if id != s.ActivePaneID {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}
