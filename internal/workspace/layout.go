package workspace

import (
	"context"
	"fmt"

	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/logging"
)

// Split divides the workspace into two panes, or reorients an existing
// split. Splitting while already split in the same orientation is a
// no-op; in the other orientation only the orientation changes, panes
// and their contents stay put. Emits pane-created (on a fresh split)
// then pane-layout-changed.
func (m *Manager) Split(ctx context.Context, orientation entity.Orientation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.splitLocked(ctx, orientation)
}

func (m *Manager) splitLocked(ctx context.Context, orientation entity.Orientation) error {
	if !orientation.IsSplit() {
		return fmt.Errorf("%w: cannot split with orientation %q", ErrBadArgument, orientation)
	}
	if m.orientation == orientation {
		return nil
	}

	if m.orientation.IsSplit() {
		m.orientation = orientation
		m.refreshLayoutLocked(true)
		m.events.emitPaneLayoutChanged(PaneLayoutChangedEvent{Orientation: orientation})
		logging.FromContext(ctx).Debug().
			Str("orientation", string(orientation)).
			Msg("split reoriented")
		return nil
	}

	m.createPaneLocked(ctx, SecondPane)
	m.orientation = orientation
	m.refreshLayoutLocked(false)
	m.events.emitPaneLayoutChanged(PaneLayoutChangedEvent{Orientation: orientation})
	logging.FromContext(ctx).Debug().
		Str("orientation", string(orientation)).
		Msg("workspace split")
	return nil
}

// MergePanes collapses a split back to a single pane. The first pane
// absorbs the second's working set and views; focus moves to the first
// pane, and the file that was displayed in the previously active pane
// stays displayed when possible. Merging an unsplit workspace is a
// no-op.
func (m *Manager) MergePanes(ctx context.Context) error {
	m.mu.Lock()
	reopen := m.mergeLocked(ctx)
	m.mu.Unlock()

	if reopen == nil {
		return nil
	}
	// The previously displayed file lost its view during the merge and
	// needs a fresh document load, which must not hold the lock.
	_, err := m.Open(ctx, FirstPane, reopen, OpenOptions{})
	return err
}

// mergeLocked performs the merge and returns a file needing an
// out-of-lock reopen to restore display continuity, or nil.
func (m *Manager) mergeLocked(ctx context.Context) entity.FileRef {
	if len(m.panes) < 2 {
		return nil
	}
	first, second := m.panes[0], m.panes[1]

	var prevFile entity.FileRef
	if active := m.resolvePaneLocked(m.activePaneID); active != nil {
		prevFile = active.CurrentFile()
	}

	first.MergeFrom(ctx, second)
	m.repointMRULocked(second.id, first.id)

	if m.activePaneID == second.id {
		m.setActivePaneLocked(ctx, first.id)
	}

	m.containers.DestroyContainer(second.container)
	m.panes = m.panes[:1]
	m.orientation = entity.OrientationNone
	m.refreshLayoutLocked(false)

	m.events.emitPaneDestroyed(PaneDestroyedEvent{PaneID: second.id})
	m.events.emitPaneLayoutChanged(PaneLayoutChangedEvent{Orientation: entity.OrientationNone})
	m.events.emitWorkingSetUpdate(WorkingSetUpdateEvent{PaneID: first.id})

	logging.FromContext(ctx).Debug().
		Str("pane_id", first.id).
		Int("working_set_size", first.WorkingSetSize()).
		Msg("panes merged")

	if prevFile == nil || entity.SameFile(first.CurrentFile(), prevFile) {
		return nil
	}
	outcome, err := m.openLocked(ctx, first.id, prevFile, OpenOptions{})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Str("path", prevFile.FullPath()).
			Msg("could not restore displayed file after merge")
		return nil
	}
	if outcome.needsDocument {
		return prevFile
	}
	return nil
}

// SetLayoutScheme applies a rows/columns layout scheme: 1x1 merges,
// 1x2 splits vertically, 2x1 splits horizontally. Any other scheme
// fails with ErrInvalidLayoutScheme and changes nothing.
func (m *Manager) SetLayoutScheme(ctx context.Context, rows, columns int) error {
	orientation, ok := entity.OrientationForScheme(rows, columns)
	if !ok {
		return fmt.Errorf("%w: %dx%d", ErrInvalidLayoutScheme, rows, columns)
	}
	if !orientation.IsSplit() {
		return m.MergePanes(ctx)
	}
	return m.Split(ctx, orientation)
}

// refreshLayoutLocked recomputes the layout of every displayed view
// after the pane geometry changed.
func (m *Manager) refreshLayoutLocked(force bool) {
	for _, pane := range m.panes {
		if view := pane.CurrentView(); view != nil {
			view.UpdateLayout(force)
		}
	}
}
