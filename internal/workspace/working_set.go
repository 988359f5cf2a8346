package workspace

import (
	"context"

	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/logging"
)

// AddView adds file to the addressed pane's working set at index (end
// when negative) without displaying it. A file already held by another
// pane is silently added there instead; a file already in the target
// set is left in place. Emits working-set-add for genuinely new
// entries.
func (m *Manager) AddView(ctx context.Context, paneID string, file entity.FileRef, index int) {
	if file == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return
	}
	if owner := m.findPaneDisplayingLocked(file.FullPath()); owner != nil && owner != pane {
		pane = owner
	}
	m.addToWorkingSetLocked(ctx, pane, file, index, false)
}

// addToWorkingSetLocked inserts one file and keeps the recency order
// and events in step with the outcome.
func (m *Manager) addToWorkingSetLocked(ctx context.Context, pane *Pane, file entity.FileRef, index int, force bool) {
	outcome, naturalIndex := pane.AddToWorkingSet(file, index, force)
	switch outcome {
	case entity.AddedNew:
		m.mruInsertLocked(pane, file)
		m.events.emitWorkingSetAdd(WorkingSetAddEvent{
			File:   file,
			Index:  naturalIndex,
			PaneID: pane.id,
		})
		logging.FromContext(ctx).Debug().
			Str("pane_id", pane.id).
			Str("path", file.FullPath()).
			Int("index", naturalIndex).
			Msg("file added to working set")
	case entity.Relocated:
		m.events.emitWorkingSetSort(WorkingSetSortEvent{PaneID: pane.id})
	}
}

// AddViews bulk-adds files to the addressed pane's working set,
// skipping duplicates and files held by other panes. Emits one
// working-set-add-list carrying the accepted subset.
func (m *Manager) AddViews(ctx context.Context, paneID string, files []entity.FileRef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return
	}
	accepted := pane.AddListToWorkingSet(ctx, files, func(path string) string {
		if owner := m.findPaneDisplayingLocked(path); owner != nil {
			return owner.id
		}
		return ""
	})
	if len(accepted) == 0 {
		return
	}
	for _, file := range accepted {
		m.mruInsertLocked(pane, file)
	}
	m.events.emitWorkingSetAddList(WorkingSetAddListEvent{
		Files:  accepted,
		PaneID: pane.id,
	})
}

// MoveWorkingSetItem moves file to index within a pane's natural
// order, adding it when absent. force relocates even an entry already
// present.
func (m *Manager) MoveWorkingSetItem(ctx context.Context, paneID string, file entity.FileRef, index int, force bool) {
	if file == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return
	}
	m.addToWorkingSetLocked(ctx, pane, file, index, force)
}

// SwapWorkingSetItems exchanges two natural-order slots and emits
// working-set-sort. Out-of-range indices change nothing.
func (m *Manager) SwapWorkingSetItems(ctx context.Context, paneID string, i, j int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return false
	}
	if !pane.SwapWorkingSetItems(i, j) {
		return false
	}
	m.events.emitWorkingSetSort(WorkingSetSortEvent{PaneID: pane.id})
	return true
}

// SortWorkingSet reorders the natural order of the addressed working
// set(s) with less and emits working-set-sort per pane. Added and MRU
// orders are untouched.
func (m *Manager) SortWorkingSet(ctx context.Context, paneID string, less func(a, b entity.FileRef) bool) {
	if less == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pane := range m.scopePanesLocked(paneID) {
		if pane.WorkingSetSize() < 2 {
			continue
		}
		pane.list.SortNatural(less)
		m.events.emitWorkingSetSort(WorkingSetSortEvent{PaneID: pane.id})
	}
}

// SortWorkingSetByPath sorts the natural order lexicographically by
// full path.
func (m *Manager) SortWorkingSetByPath(ctx context.Context, paneID string) {
	m.SortWorkingSet(ctx, paneID, func(a, b entity.FileRef) bool {
		return a.FullPath() < b.FullPath()
	})
}
