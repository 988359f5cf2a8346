package workspace

import (
	"context"
	"fmt"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/logging"
)

// OpenOptions tunes Open and Edit.
type OpenOptions struct {
	// AvoidActivation opens without moving focus to the target pane.
	AvoidActivation bool
}

// openOutcome is the under-lock half of an open. needsDocument marks
// the slow path: the file is editable text with no live view yet, so
// the caller must load the document outside the lock and finish with
// editLocked.
type openOutcome struct {
	file          entity.FileRef
	paneID        string
	needsDocument bool
}

// Open displays file in the addressed pane. Resolution order: an
// existing live view is reshown; a registered view factory builds a
// custom view; editable text is loaded and handed to the editor; any
// other path fails with ErrUnsupportedFileType. A file already open in
// another pane is redirected there instead of being duplicated. The
// target pane becomes active unless opts.AvoidActivation. Returns the
// displayed file.
//
// Document loads block outside the manager's lock, so other operations
// may interleave with a slow open; concurrent opens of the same path
// share one load.
func (m *Manager) Open(ctx context.Context, paneID string, file entity.FileRef, opts OpenOptions) (entity.FileRef, error) {
	m.mu.Lock()
	outcome, err := m.openLocked(ctx, paneID, file, opts)
	m.mu.Unlock()
	if err != nil || !outcome.needsDocument {
		return outcome.file, err
	}

	path := file.FullPath()
	v, err, _ := m.loadGroup.Do(path, func() (any, error) {
		return m.docs.GetDocumentForPath(ctx, path)
	})
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", path, err)
	}
	doc, ok := v.(port.Document)
	if !ok || doc == nil {
		return nil, fmt.Errorf("load document %s: provider returned no document", path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editLocked(ctx, outcome.paneID, doc, opts); err != nil {
		return nil, err
	}
	return doc.File(), nil
}

func (m *Manager) openLocked(ctx context.Context, paneID string, file entity.FileRef, opts OpenOptions) (openOutcome, error) {
	if file == nil || file.FullPath() == "" {
		return openOutcome{}, fmt.Errorf("%w: open requires a file", ErrBadArgument)
	}
	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return openOutcome{}, fmt.Errorf("%w: unknown pane %q", ErrBadArgument, paneID)
	}
	path := file.FullPath()

	// Cross-pane uniqueness: a file already held elsewhere is shown
	// there instead of being opened twice.
	if owner := m.findPaneDisplayingLocked(path); owner != nil && owner != pane {
		pane = owner
	}

	view := pane.viewForPath(path)
	var factory port.ViewFactory
	if view == nil && m.factories != nil {
		factory = m.factories.FindFactory(path)
	}
	editable := m.editor != nil && m.editor.CanOpenPath(path)
	if view == nil && factory == nil && !editable {
		return openOutcome{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}

	if !opts.AvoidActivation {
		m.setActivePaneLocked(ctx, pane.id)
	}

	switch {
	case view != nil:
		pane.ShowView(ctx, view)
		return openOutcome{file: file, paneID: pane.id}, nil
	case factory != nil:
		if err := factory.OpenFile(ctx, file, pane); err != nil {
			return openOutcome{}, fmt.Errorf("open %s: %w", path, err)
		}
		if created := pane.viewForPath(path); created != nil {
			pane.ShowView(ctx, created)
		}
		// Files outside the project tree are unreachable from the file
		// tree, so they join the working set to stay reachable.
		if m.project != nil && !m.project.IsWithinProject(path) {
			m.addToWorkingSetLocked(ctx, pane, file, -1, false)
		}
		logging.FromContext(ctx).Debug().
			Str("pane_id", pane.id).
			Str("path", path).
			Msg("file opened with custom view")
		return openOutcome{file: file, paneID: pane.id}, nil
	default:
		return openOutcome{file: file, paneID: pane.id, needsDocument: true}, nil
	}
}

// Edit displays an already-loaded document in the addressed pane.
// Untitled and out-of-project documents join the working set
// immediately; everything else stays a temporary view until added
// explicitly.
func (m *Manager) Edit(ctx context.Context, paneID string, doc port.Document, opts OpenOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editLocked(ctx, paneID, doc, opts)
}

func (m *Manager) editLocked(ctx context.Context, paneID string, doc port.Document, opts OpenOptions) error {
	if doc == nil || doc.File() == nil {
		return fmt.Errorf("%w: edit requires a document", ErrBadArgument)
	}
	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return fmt.Errorf("%w: unknown pane %q", ErrBadArgument, paneID)
	}
	if m.editor == nil {
		return fmt.Errorf("%w: no editor configured", ErrUnsupportedFileType)
	}

	file := doc.File()
	path := file.FullPath()
	if owner := m.findPaneDisplayingLocked(path); owner != nil && owner != pane {
		pane = owner
	}
	if !opts.AvoidActivation {
		m.setActivePaneLocked(ctx, pane.id)
	}

	if doc.Untitled() || (m.project != nil && !m.project.IsWithinProject(path)) {
		if !pane.InWorkingSet(path) {
			m.addToWorkingSetLocked(ctx, pane, file, -1, false)
		}
	}

	view, err := m.editor.OpenDocument(ctx, doc, pane)
	if err != nil {
		return fmt.Errorf("edit %s: %w", path, err)
	}
	pane.AddView(view)
	pane.ShowView(ctx, view)

	logging.FromContext(ctx).Debug().
		Str("pane_id", pane.id).
		Str("path", path).
		Bool("untitled", doc.Untitled()).
		Msg("document opened in editor")
	return nil
}

// Close removes file from its working set and destroys its view. With
// AllPanes the file is routed to whichever pane holds it. When the
// closed file was displayed, the pane auto-advances to its MRU-next
// file. Closing a file that is nowhere open is a no-op.
func (m *Manager) Close(ctx context.Context, paneID string, file entity.FileRef) {
	if file == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	pane := m.closeTargetLocked(paneID, file.FullPath())
	if pane == nil {
		return
	}
	wasInSet := pane.InWorkingSet(file.FullPath())
	if pane.RemoveView(ctx, file, false) && wasInSet {
		m.removeFromMRULocked(pane.id, file)
		m.events.emitWorkingSetRemove(WorkingSetRemoveEvent{
			File:   file,
			PaneID: pane.id,
		})
	}
}

// closeTargetLocked resolves the pane a close should act on. The
// AllPanes scope routes per file.
func (m *Manager) closeTargetLocked(paneID, path string) *Pane {
	if paneID == AllPanes {
		return m.findPaneDisplayingLocked(path)
	}
	return m.resolvePaneLocked(paneID)
}

// CloseList removes several files at once, suppressing per-file
// auto-advance; a pane whose displayed file was closed falls back to
// its interstitial. One working-set-remove-list fires per affected
// pane.
func (m *Manager) CloseList(ctx context.Context, paneID string, files []entity.FileRef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedByPane := make(map[*Pane][]entity.FileRef)
	var order []*Pane
	for _, file := range files {
		if file == nil {
			continue
		}
		pane := m.closeTargetLocked(paneID, file.FullPath())
		if pane == nil {
			continue
		}
		wasInSet := pane.InWorkingSet(file.FullPath())
		if pane.RemoveView(ctx, file, true) && wasInSet {
			m.removeFromMRULocked(pane.id, file)
			if _, seen := removedByPane[pane]; !seen {
				order = append(order, pane)
			}
			removedByPane[pane] = append(removedByPane[pane], file)
		}
	}

	for _, pane := range order {
		m.events.emitWorkingSetRemoveList(WorkingSetRemoveListEvent{
			Files:  removedByPane[pane],
			PaneID: pane.id,
		})
	}
}

// CloseAll empties the addressed working set(s), destroying every view
// including the displayed one.
func (m *Manager) CloseAll(ctx context.Context, paneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pane := range m.scopePanesLocked(paneID) {
		removed := pane.RemoveAllFromWorkingSet()
		if pane.CurrentView() != nil {
			pane.ShowView(ctx, nil)
		}
		m.clearPaneMRULocked(pane.id)
		if len(removed) > 0 {
			m.events.emitWorkingSetRemoveList(WorkingSetRemoveListEvent{
				Files:  removed,
				PaneID: pane.id,
			})
		}
	}
}
