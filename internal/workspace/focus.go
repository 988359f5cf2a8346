package workspace

import (
	"context"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/logging"
)

// HandleFocusChange routes a focus event from an editing widget to the
// pane whose container encloses it, walking parent links upward. Focus
// landing in the already-active pane, or outside any pane, changes
// nothing.
func (m *Manager) HandleFocusChange(ctx context.Context, focused port.Container) {
	if focused == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for node := focused; node != nil; node = node.Parent() {
		for _, pane := range m.panes {
			if pane.container == nil || pane.container.ID() != node.ID() {
				continue
			}
			if pane.id != m.activePaneID {
				logging.FromContext(ctx).Debug().
					Str("pane_id", pane.id).
					Str("container_id", node.ID()).
					Msg("focus routed to pane")
				m.setActivePaneLocked(ctx, pane.id)
			}
			return
		}
	}
}

// FocusActivePane gives keyboard focus to the active pane's displayed
// view, when there is one.
func (m *Manager) FocusActivePane() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pane := m.resolvePaneLocked(m.activePaneID); pane != nil {
		if view := pane.CurrentView(); view != nil {
			view.Focus()
		}
	}
}
