package workspace

import (
	"context"

	"github.com/loom-editor/loom/internal/domain/entity"
)

// The global recency order spans both panes: one entry per working-set
// file, most recent first. Displaying a file promotes its entry to the
// front unless a traversal is in progress, so walking the order with a
// held modifier visits files in stable positions.

func (m *Manager) mruIndexLocked(paneID, path string) int {
	for i, entry := range m.mru {
		if entry.PaneID == paneID && entry.File.FullPath() == path {
			return i
		}
	}
	return -1
}

// mruInsertLocked registers a file that just entered a working set.
// The entry lands at the front when the file is displayed in its pane,
// at the tail otherwise.
func (m *Manager) mruInsertLocked(pane *Pane, file entity.FileRef) {
	if file == nil {
		return
	}
	if m.mruIndexLocked(pane.id, file.FullPath()) >= 0 {
		return
	}
	entry := mruEntry{File: file, PaneID: pane.id}
	if pane.showsFile(file) {
		m.mru = append([]mruEntry{entry}, m.mru...)
		return
	}
	m.mru = append(m.mru, entry)
}

// makeFileMostRecentLocked promotes file to the front of both the
// global and the pane-local recency orders. Suppressed while a
// traversal is in progress so the frozen order stays walkable.
func (m *Manager) makeFileMostRecentLocked(paneID string, file entity.FileRef) {
	if m.traversing || file == nil {
		return
	}
	if pane := m.resolvePaneLocked(paneID); pane != nil {
		pane.MakeMostRecent(file)
	}
	i := m.mruIndexLocked(paneID, file.FullPath())
	if i <= 0 {
		return
	}
	entry := m.mru[i]
	m.mru = append(m.mru[:i], m.mru[i+1:]...)
	m.mru = append([]mruEntry{entry}, m.mru...)
}

func (m *Manager) removeFromMRULocked(paneID string, file entity.FileRef) {
	i := m.mruIndexLocked(paneID, file.FullPath())
	if i < 0 {
		return
	}
	m.mru = append(m.mru[:i], m.mru[i+1:]...)
}

func (m *Manager) clearPaneMRULocked(paneID string) {
	kept := m.mru[:0]
	for _, entry := range m.mru {
		if entry.PaneID != paneID {
			kept = append(kept, entry)
		}
	}
	m.mru = kept
}

// repointMRULocked reassigns entries from one pane to another after a
// merge, preserving recency. Entries whose file the absorbing pane
// already holds are dropped.
func (m *Manager) repointMRULocked(fromPaneID, toPaneID string) {
	kept := m.mru[:0]
	for _, entry := range m.mru {
		if entry.PaneID == fromPaneID {
			if m.mruIndexLocked(toPaneID, entry.File.FullPath()) >= 0 {
				continue
			}
			entry.PaneID = toPaneID
		}
		kept = append(kept, entry)
	}
	m.mru = kept
}

// BeginTraversal freezes the recency order. Files shown while frozen
// are not promoted, so repeated Traverse calls walk a stable sequence.
// Idempotent.
func (m *Manager) BeginTraversal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traversing = true
}

// EndTraversal unfreezes the recency order and promotes the file the
// traversal landed on, once.
func (m *Manager) EndTraversal(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.traversing {
		return
	}
	m.traversing = false
	if pane := m.resolvePaneLocked(m.activePaneID); pane != nil {
		m.makeFileMostRecentLocked(pane.id, pane.CurrentFile())
	}
}

// NextInTraversal returns the entry direction steps away from the
// globally current file in the frozen recency order, wrapping at both
// ends. Returns false for an empty order. direction is +1 (less
// recent) or -1 (more recent). The caller displays the entry with
// Open(entry.PaneID, entry.File).
func (m *Manager) NextInTraversal(direction int) (entity.FileRef, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.mru) == 0 {
		return nil, "", false
	}
	current := -1
	if pane := m.resolvePaneLocked(m.activePaneID); pane != nil {
		if path := entity.PathOf(pane.CurrentFile()); path != "" {
			current = m.mruIndexLocked(pane.id, path)
		}
	}
	if current < 0 {
		entry := m.mru[0]
		return entry.File, entry.PaneID, true
	}
	n := len(m.mru)
	entry := m.mru[((current+direction)%n+n)%n]
	return entry.File, entry.PaneID, true
}

// Traverse steps the frozen recency order and displays the entry it
// lands on, switching panes when the entry lives in the other pane.
func (m *Manager) Traverse(ctx context.Context, direction int) (entity.FileRef, error) {
	file, paneID, ok := m.NextInTraversal(direction)
	if !ok {
		return nil, nil
	}
	return m.Open(ctx, paneID, file, OpenOptions{})
}

// MRUFiles returns the files of the global recency order, most recent
// first.
func (m *Manager) MRUFiles() []entity.FileRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.FileRef, len(m.mru))
	for i, entry := range m.mru {
		out[i] = entry.File
	}
	return out
}
