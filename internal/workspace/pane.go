// Package workspace implements the pane/view-management core: per-pane
// working-set bookkeeping, live view ownership, and the coordinator
// that routes open/close/split/merge requests and emits change events.
package workspace

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/logging"
)

// Pane owns one visual region. It bridges the working-set bookkeeping
// of its ViewList to the live view instances presenting those files,
// and tracks the single current view. The current view may present a
// file that is not in the working set; such temporary views are
// destroyed as soon as they stop being displayed.
type Pane struct {
	id        string
	container port.Container
	list      *entity.ViewList
	// views maps full path to live view, in association order. Only
	// views whose file belongs to the working set, or was explicitly
	// associated via AddView, appear here.
	views   *orderedmap.OrderedMap[string, port.View]
	current port.View

	store port.ViewStateStore
	fs    port.Filesystem

	// onCurrentViewChanged is wired by the manager to re-broadcast
	// current-file-changed notifications.
	onCurrentViewChanged func(ctx context.Context, newView, oldView port.View)
	// onOpenRequest asks the coordinator to display a file in this
	// pane. Used by the auto-advance policy of RemoveView.
	onOpenRequest func(ctx context.Context, file entity.FileRef) error
}

func newPane(id string, container port.Container, store port.ViewStateStore, fs port.Filesystem) *Pane {
	return &Pane{
		id:        id,
		container: container,
		list:      entity.NewViewList(),
		views:     orderedmap.New[string, port.View](),
		store:     store,
		fs:        fs,
	}
}

// ID returns the pane's stable identifier.
func (p *Pane) ID() string {
	return p.id
}

// Container returns the visual region hosting this pane's views.
func (p *Pane) Container() port.Container {
	return p.container
}

// CurrentView returns the currently displayed view, or nil.
func (p *Pane) CurrentView() port.View {
	return p.current
}

// CurrentFile returns the file of the currently displayed view, or nil.
func (p *Pane) CurrentFile() entity.FileRef {
	if p.current == nil {
		return nil
	}
	return p.current.File()
}

// WorkingSetSize returns the number of files in the working set.
func (p *Pane) WorkingSetSize() int {
	return p.list.Size()
}

// WorkingSetFiles returns a copy of the working set in the given order.
func (p *Pane) WorkingSetFiles(order entity.ListOrder) []entity.FileRef {
	return p.list.Files(order)
}

// IndexInWorkingSet returns the position of path in the given
// ordering, or -1.
func (p *Pane) IndexInWorkingSet(order entity.ListOrder, path string) int {
	return p.list.IndexOf(order, path)
}

// InWorkingSet reports whether path belongs to the working set.
func (p *Pane) InWorkingSet(path string) bool {
	return p.list.Contains(path)
}

// AddView associates a live view with this pane, keyed by its file's
// full path. Implements port.ViewHost for factories and editors.
func (p *Pane) AddView(view port.View) {
	if view == nil {
		return
	}
	path := entity.PathOf(view.File())
	if path == "" {
		return
	}
	p.views.Set(path, view)
}

func (p *Pane) viewForPath(path string) port.View {
	view, ok := p.views.Get(path)
	if !ok {
		return nil
	}
	return view
}

// ShowView makes view the pane's current view. Showing the view that
// is already current only forces a layout refresh. Otherwise the
// outgoing view's transient state is persisted, the view is hidden, a
// current-view-changed notification fires, and the outgoing view is
// destroyed if nothing references it anymore. view may be nil to show
// the pane's interstitial.
func (p *Pane) ShowView(ctx context.Context, view port.View) {
	if view != nil && p.current == view {
		view.UpdateLayout(true)
		return
	}

	oldView := p.current
	if oldView != nil {
		oldPath := entity.PathOf(oldView.File())
		if oldPath != "" {
			if p.store != nil {
				if state := oldView.ViewState(); state != nil {
					p.store.SetViewState(oldView.File(), state)
				}
			}
			// A working-set file whose view vanished from the map is a
			// caller ordering bug, not a state to patch around.
			if p.list.Contains(oldPath) && p.viewForPath(oldPath) == nil {
				logging.FromContext(ctx).Error().
					Str("pane_id", p.id).
					Str("path", oldPath).
					Msg("working-set file has no entry in the view map")
				panic(fmt.Sprintf("workspace: pane %q lost the view for working-set file %q", p.id, oldPath))
			}
		}
		oldView.SetVisible(false)
	}

	p.current = view
	if view != nil {
		view.SetVisible(true)
		view.UpdateLayout(false)
	}

	p.notifyCurrentViewChanged(ctx, view, oldView)

	if oldView != nil {
		p.DestroyViewIfNotNeeded(oldView)
	}
}

func (p *Pane) notifyCurrentViewChanged(ctx context.Context, newView, oldView port.View) {
	if p.onCurrentViewChanged != nil {
		p.onCurrentViewChanged(ctx, newView, oldView)
	}
}

// ReorderItem moves file to index within the natural order, adding it
// when absent. The returned outcome tells the caller which
// notification to fire.
func (p *Pane) ReorderItem(file entity.FileRef, index int, force bool) entity.AddOutcome {
	return p.list.Insert(file, entity.InsertOptions{
		Index:    index,
		Force:    force,
		MRUFront: p.showsFile(file),
	})
}

// AddToWorkingSet inserts file at index (end when negative). The MRU
// entry goes to the front when the file is currently displayed, to the
// tail otherwise. Returns the outcome and the file's natural-order
// index.
func (p *Pane) AddToWorkingSet(file entity.FileRef, index int, force bool) (entity.AddOutcome, int) {
	outcome := p.list.Insert(file, entity.InsertOptions{
		Index:    index,
		Force:    force,
		MRUFront: p.showsFile(file),
	})
	if file == nil {
		return outcome, -1
	}
	return outcome, p.list.IndexOf(entity.OrderNatural, file.FullPath())
}

// AddListToWorkingSet bulk-appends files, skipping entries already in
// this working set and entries claimedBy resolves to another pane.
// Returns the accepted subset in input order.
func (p *Pane) AddListToWorkingSet(ctx context.Context, files []entity.FileRef, claimedBy func(path string) string) []entity.FileRef {
	var accepted []entity.FileRef
	for _, file := range files {
		if file == nil {
			continue
		}
		path := file.FullPath()
		if p.list.Contains(path) {
			continue
		}
		if claimedBy != nil {
			if owner := claimedBy(path); owner != "" && owner != p.id {
				continue
			}
		}
		p.list.Insert(file, entity.InsertOptions{Index: -1, MRUFront: p.showsFile(file)})
		accepted = append(accepted, file)
	}
	if len(accepted) > 0 {
		logging.FromContext(ctx).Debug().
			Str("pane_id", p.id).
			Int("accepted", len(accepted)).
			Int("requested", len(files)).
			Msg("files added to working set")
	}
	return accepted
}

// RemoveFromWorkingSet removes file from the working set and destroys
// its view unless that view is currently displayed. Returns false for
// files not in the set.
func (p *Pane) RemoveFromWorkingSet(file entity.FileRef) bool {
	if !p.list.Remove(file) {
		return false
	}
	p.destroyLeavingView(file.FullPath())
	return true
}

// RemoveListFromWorkingSet removes each file, returning the subset
// actually removed.
func (p *Pane) RemoveListFromWorkingSet(files []entity.FileRef) []entity.FileRef {
	var removed []entity.FileRef
	for _, file := range files {
		if p.RemoveFromWorkingSet(file) {
			removed = append(removed, file)
		}
	}
	return removed
}

// RemoveAllFromWorkingSet empties the working set, destroying every
// view except the currently displayed one. Returns the removed files
// in natural order.
func (p *Pane) RemoveAllFromWorkingSet() []entity.FileRef {
	files := p.list.Files(entity.OrderNatural)
	p.list.Reset()
	for _, file := range files {
		p.destroyLeavingView(file.FullPath())
	}
	return files
}

// destroyLeavingView destroys the view for a file that left the
// working set, unless it is the current view (which then becomes
// temporary and dies on replacement).
func (p *Pane) destroyLeavingView(path string) {
	view := p.viewForPath(path)
	if view == nil || view == p.current {
		return
	}
	p.views.Delete(path)
	view.Destroy()
}

// RemoveView removes file from the pane entirely. When the file is
// currently displayed and auto-advance is not suppressed, the MRU-next
// file in this pane is located first; if that file has a live view the
// coordinator is asked to display it, preserving selection continuity.
// Otherwise the pane falls back to its interstitial.
func (p *Pane) RemoveView(ctx context.Context, file entity.FileRef, suppressAutoAdvance bool) bool {
	if file == nil {
		return false
	}
	if !suppressAutoAdvance && p.showsFile(file) {
		next := p.list.TraverseMRU(1, file.FullPath())
		if next != nil && !entity.SameFile(next, file) {
			removed := p.doRemoveView(ctx, file)
			if removed && p.viewForPath(next.FullPath()) != nil && p.onOpenRequest != nil {
				if err := p.onOpenRequest(ctx, next); err != nil {
					logging.FromContext(ctx).Warn().Err(err).
						Str("pane_id", p.id).
						Str("path", next.FullPath()).
						Msg("auto-advance open failed")
				}
			}
			return removed
		}
	}
	return p.doRemoveView(ctx, file)
}

func (p *Pane) doRemoveView(ctx context.Context, file entity.FileRef) bool {
	path := file.FullPath()
	inList := p.list.Remove(file)
	hadView := p.viewForPath(path) != nil

	if p.showsFile(file) {
		// Hides, notifies, and destroys the outgoing view since its
		// file is no longer referenced by the list.
		p.ShowView(ctx, nil)
		return true
	}
	if hadView {
		view := p.viewForPath(path)
		p.views.Delete(path)
		view.Destroy()
	}
	return inList || hadView
}

// DestroyViewIfNotNeeded destroys view unless it is still referenced:
// a view is needed iff it is the current view or its file is in the
// working set. Safe to call with views owned by this pane whose
// ownership is in doubt, e.g. after editor reuse.
func (p *Pane) DestroyViewIfNotNeeded(view port.View) {
	if view == nil || view == p.current {
		return
	}
	path := entity.PathOf(view.File())
	if path != "" && p.list.Contains(path) {
		return
	}
	p.views.Delete(path)
	view.Destroy()
}

// MergeFrom absorbs other's working set and views into this pane:
// this pane's entries keep their order, other's entries not already
// present append after them. Transferred views are re-parented into
// this pane's container. Other's current view, when temporary, is
// destroyed rather than transferred. Other is reset to a fresh empty
// state; discarding it is the caller's responsibility.
func (p *Pane) MergeFrom(ctx context.Context, other *Pane) {
	if other == nil || other == p {
		return
	}
	log := logging.FromContext(ctx)

	if other.current != nil {
		other.current.SetVisible(false)
	}

	p.list.Merge(other.list)

	transferred := 0
	for pair := other.views.Oldest(); pair != nil; pair = pair.Next() {
		view := pair.Value
		if !p.list.Contains(pair.Key) {
			// Temporary view: its file survives in no working set.
			view.Destroy()
			continue
		}
		if _, exists := p.views.Get(pair.Key); exists {
			// Cross-pane uniqueness should make this unreachable;
			// the absorbing pane's view wins.
			view.Destroy()
			continue
		}
		view.SwitchContainer(p.container)
		p.views.Set(pair.Key, view)
		transferred++
	}

	if cur := other.current; cur != nil && other.viewForPath(entity.PathOf(cur.File())) == nil && !p.list.Contains(entity.PathOf(cur.File())) {
		cur.Destroy()
	}

	other.reset()

	log.Debug().
		Str("pane_id", p.id).
		Str("merged_pane_id", other.id).
		Int("views_transferred", transferred).
		Int("working_set_size", p.list.Size()).
		Msg("pane merged")
}

// reset returns the pane to a fresh empty state without destroying
// anything. MergeFrom transfers or destroys the contents first.
func (p *Pane) reset() {
	p.list = entity.NewViewList()
	p.views = orderedmap.New[string, port.View]()
	p.current = nil
}

// destroyAllViews tears down every view, current included. Used when
// the pane itself is discarded without a merge.
func (p *Pane) destroyAllViews() {
	for pair := p.views.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Destroy()
	}
	if p.current != nil && p.viewForPath(entity.PathOf(p.current.File())) == nil {
		p.current.Destroy()
	}
	p.reset()
}

// SwapWorkingSetItems exchanges two natural-order slots. Returns false
// when either index is out of range.
func (p *Pane) SwapWorkingSetItems(i, j int) bool {
	return p.list.Swap(i, j)
}

// TraverseMRU steps through this pane's MRU order with wraparound.
func (p *Pane) TraverseMRU(direction int, currentPath string) entity.FileRef {
	return p.list.TraverseMRU(direction, currentPath)
}

// MakeMostRecent promotes file to the front of this pane's MRU order.
func (p *Pane) MakeMostRecent(file entity.FileRef) {
	p.list.MakeMostRecent(file)
}

func (p *Pane) showsFile(file entity.FileRef) bool {
	return p.current != nil && entity.SameFile(p.current.File(), file)
}
