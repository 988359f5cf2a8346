package workspace

import (
	"context"
	"fmt"

	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/logging"
)

// SaveState captures the pane's working set in natural order for
// persistence. Untitled files are skipped: they exist only in memory
// and cannot be reopened from disk. Each entry carries the opaque view
// state from the live view when one exists, falling back to the
// view-state store.
func (p *Pane) SaveState() []entity.PaneEntryState {
	entries := make([]entity.PaneEntryState, 0, p.list.Size())
	for _, file := range p.list.Files(entity.OrderNatural) {
		if file.Untitled() {
			continue
		}
		entry := entity.PaneEntryState{
			Path:   file.FullPath(),
			Active: p.showsFile(file),
		}
		if view := p.viewForPath(file.FullPath()); view != nil {
			entry.ViewState = view.ViewState()
		} else if p.store != nil {
			entry.ViewState = p.store.ViewState(file)
		}
		entries = append(entries, entry)
	}
	return entries
}

// LoadState bulk-adds the serialized entries to the working set,
// restores their opaque view state into the store, and returns the
// file that should be opened to finish the restore: the entry marked
// active, or the first accepted entry when none was marked. The caller
// issues that open; LoadState itself never displays anything. The
// accepted subset is returned so the coordinator can account for the
// new working-set entries.
func (p *Pane) LoadState(ctx context.Context, entries []entity.PaneEntryState) (entity.FileRef, []entity.FileRef, error) {
	if p.fs == nil {
		return nil, nil, fmt.Errorf("pane %q: filesystem collaborator required to load state", p.id)
	}

	var fileToOpen entity.FileRef
	files := make([]entity.FileRef, 0, len(entries))
	states := make(map[string]any, len(entries))
	for _, entry := range entries {
		file := p.fs.GetFileForPath(entry.Path)
		if file == nil {
			continue
		}
		files = append(files, file)
		if entry.ViewState != nil {
			states[file.FullPath()] = entry.ViewState
		}
		if entry.Active && fileToOpen == nil {
			fileToOpen = file
		}
	}

	if p.store != nil && len(states) > 0 {
		p.store.SetAllViewStates(states)
	}

	accepted := p.AddListToWorkingSet(ctx, files, nil)
	if fileToOpen == nil && len(accepted) > 0 {
		fileToOpen = accepted[0]
	}

	logging.FromContext(ctx).Debug().
		Str("pane_id", p.id).
		Int("entries", len(entries)).
		Int("accepted", len(accepted)).
		Str("file_to_open", entity.PathOf(fileToOpen)).
		Msg("pane state loaded")

	return fileToOpen, accepted, nil
}
