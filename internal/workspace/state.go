package workspace

import (
	"context"
	"fmt"

	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/logging"
)

// CaptureLayoutState snapshots the current layout: orientation, active
// pane, and each pane's working set with per-file view state. The
// snapshot is detached; later mutations do not affect it.
func (m *Manager) CaptureLayoutState() *entity.LayoutState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := entity.NewLayoutState()
	state.Orientation = m.orientation
	state.ActivePaneID = m.activePaneID
	for _, pane := range m.panes {
		state.Panes[pane.id] = pane.SaveState()
	}
	return state
}

// PersistLayout captures the layout and stores it under projectPath.
func (m *Manager) PersistLayout(ctx context.Context, projectPath string) error {
	if m.layouts == nil {
		return fmt.Errorf("persist layout: no repository configured")
	}
	state := m.CaptureLayoutState()
	if err := m.layouts.Save(ctx, projectPath, state); err != nil {
		return fmt.Errorf("persist layout for %s: %w", projectPath, err)
	}
	logging.FromContext(ctx).Info().
		Str("project", projectPath).
		Int("entries", state.CountEntries()).
		Msg("layout persisted")
	return nil
}

// RestoreLayout loads the snapshot stored under projectPath and applies
// it. A missing snapshot is not an error; nothing changes.
func (m *Manager) RestoreLayout(ctx context.Context, projectPath string) error {
	if m.layouts == nil {
		return fmt.Errorf("restore layout: no repository configured")
	}
	state, err := m.layouts.Load(ctx, projectPath)
	if err != nil {
		return fmt.Errorf("restore layout for %s: %w", projectPath, err)
	}
	if state == nil {
		return nil
	}
	return m.ApplyLayoutState(ctx, state)
}

// ApplyLayoutState rebuilds panes, working sets and the displayed
// files from a snapshot. Intended for a freshly created manager;
// applying over existing content merges rather than replaces.
func (m *Manager) ApplyLayoutState(ctx context.Context, state *entity.LayoutState) error {
	if state == nil {
		return nil
	}
	if state.Orientation.IsSplit() {
		if err := m.Split(ctx, state.Orientation); err != nil {
			return fmt.Errorf("apply layout: %w", err)
		}
	}

	type pendingOpen struct {
		paneID string
		file   entity.FileRef
	}
	var opens []pendingOpen

	m.mu.Lock()
	for _, paneID := range state.PaneIDs() {
		pane := m.resolvePaneLocked(paneID)
		if pane == nil {
			logging.FromContext(ctx).Warn().
				Str("pane_id", paneID).
				Msg("snapshot references a pane the layout does not have")
			continue
		}
		fileToOpen, accepted, err := pane.LoadState(ctx, state.Panes[paneID])
		if err != nil {
			m.mu.Unlock()
			return fmt.Errorf("apply layout: %w", err)
		}
		for _, file := range accepted {
			m.mruInsertLocked(pane, file)
		}
		if len(accepted) > 0 {
			m.events.emitWorkingSetAddList(WorkingSetAddListEvent{
				Files:  accepted,
				PaneID: pane.id,
			})
		}
		if fileToOpen != nil {
			opens = append(opens, pendingOpen{paneID: pane.id, file: fileToOpen})
		}
	}
	activePaneID := state.ActivePaneID
	m.mu.Unlock()

	for _, open := range opens {
		avoid := open.paneID != activePaneID
		if _, err := m.Open(ctx, open.paneID, open.file, OpenOptions{AvoidActivation: avoid}); err != nil {
			logging.FromContext(ctx).Warn().Err(err).
				Str("pane_id", open.paneID).
				Str("path", open.file.FullPath()).
				Msg("could not reopen file from snapshot")
		}
	}
	m.SetActivePane(ctx, activePaneID)
	return nil
}
