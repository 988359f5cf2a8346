package workspace

import (
	"sync"

	"github.com/loom-editor/loom/internal/domain/entity"
)

// ActivePaneChangedEvent fires when keyboard focus moves to another pane.
type ActivePaneChangedEvent struct {
	NewPaneID string
	OldPaneID string
}

// CurrentFileChangedEvent fires when the displayed file changes,
// either within a pane or because the active pane switched.
type CurrentFileChangedEvent struct {
	NewFile   entity.FileRef
	NewPaneID string
	OldFile   entity.FileRef
	OldPaneID string
}

// PaneLayoutChangedEvent fires after a split or merge settles.
// Orientation is empty for an unsplit workspace.
type PaneLayoutChangedEvent struct {
	Orientation entity.Orientation
}

// PaneCreatedEvent fires once per pane creation.
type PaneCreatedEvent struct {
	PaneID string
}

// PaneDestroyedEvent fires once per pane teardown.
type PaneDestroyedEvent struct {
	PaneID string
}

// WorkingSetAddEvent fires when one file enters a pane's working set.
type WorkingSetAddEvent struct {
	File   entity.FileRef
	Index  int
	PaneID string
}

// WorkingSetAddListEvent fires for bulk adds, carrying the accepted subset.
type WorkingSetAddListEvent struct {
	Files  []entity.FileRef
	PaneID string
}

// WorkingSetRemoveEvent fires when one file leaves a pane's working set.
type WorkingSetRemoveEvent struct {
	File           entity.FileRef
	SuppressRedraw bool
	PaneID         string
}

// WorkingSetRemoveListEvent fires for bulk removals.
type WorkingSetRemoveListEvent struct {
	Files  []entity.FileRef
	PaneID string
}

// WorkingSetSortEvent fires when a working set's natural order changed
// without membership changes.
type WorkingSetSortEvent struct {
	PaneID string
}

// WorkingSetUpdateEvent tells listeners to discard cached working-set
// state for the pane and rebuild from scratch.
type WorkingSetUpdateEvent struct {
	PaneID string
}

// Events is the typed notification channel of one Manager instance.
// Handlers run synchronously, in registration order, on the goroutine
// performing the mutation; the emission order within one operation is
// fixed and never interleaves with another operation's events.
type Events struct {
	mu sync.Mutex

	activePaneChanged    []func(ActivePaneChangedEvent)
	currentFileChanged   []func(CurrentFileChangedEvent)
	paneLayoutChanged    []func(PaneLayoutChangedEvent)
	paneCreated          []func(PaneCreatedEvent)
	paneDestroyed        []func(PaneDestroyedEvent)
	workingSetAdd        []func(WorkingSetAddEvent)
	workingSetAddList    []func(WorkingSetAddListEvent)
	workingSetRemove     []func(WorkingSetRemoveEvent)
	workingSetRemoveList []func(WorkingSetRemoveListEvent)
	workingSetSort       []func(WorkingSetSortEvent)
	workingSetUpdate     []func(WorkingSetUpdateEvent)
}

// NewEvents creates an empty dispatcher.
func NewEvents() *Events {
	return &Events{}
}

func (e *Events) OnActivePaneChanged(fn func(ActivePaneChangedEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activePaneChanged = append(e.activePaneChanged, fn)
}

func (e *Events) OnCurrentFileChanged(fn func(CurrentFileChangedEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentFileChanged = append(e.currentFileChanged, fn)
}

func (e *Events) OnPaneLayoutChanged(fn func(PaneLayoutChangedEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paneLayoutChanged = append(e.paneLayoutChanged, fn)
}

func (e *Events) OnPaneCreated(fn func(PaneCreatedEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paneCreated = append(e.paneCreated, fn)
}

func (e *Events) OnPaneDestroyed(fn func(PaneDestroyedEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paneDestroyed = append(e.paneDestroyed, fn)
}

func (e *Events) OnWorkingSetAdd(fn func(WorkingSetAddEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workingSetAdd = append(e.workingSetAdd, fn)
}

func (e *Events) OnWorkingSetAddList(fn func(WorkingSetAddListEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workingSetAddList = append(e.workingSetAddList, fn)
}

func (e *Events) OnWorkingSetRemove(fn func(WorkingSetRemoveEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workingSetRemove = append(e.workingSetRemove, fn)
}

func (e *Events) OnWorkingSetRemoveList(fn func(WorkingSetRemoveListEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workingSetRemoveList = append(e.workingSetRemoveList, fn)
}

func (e *Events) OnWorkingSetSort(fn func(WorkingSetSortEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workingSetSort = append(e.workingSetSort, fn)
}

func (e *Events) OnWorkingSetUpdate(fn func(WorkingSetUpdateEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workingSetUpdate = append(e.workingSetUpdate, fn)
}

// handlersSnapshot copies a handler slice under the lock so emission
// never races with registration.
func handlersSnapshot[T any](e *Events, handlers *[]func(T)) []func(T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]func(T), len(*handlers))
	copy(out, *handlers)
	return out
}

func (e *Events) emitActivePaneChanged(ev ActivePaneChangedEvent) {
	for _, fn := range handlersSnapshot(e, &e.activePaneChanged) {
		fn(ev)
	}
}

func (e *Events) emitCurrentFileChanged(ev CurrentFileChangedEvent) {
	for _, fn := range handlersSnapshot(e, &e.currentFileChanged) {
		fn(ev)
	}
}

func (e *Events) emitPaneLayoutChanged(ev PaneLayoutChangedEvent) {
	for _, fn := range handlersSnapshot(e, &e.paneLayoutChanged) {
		fn(ev)
	}
}

func (e *Events) emitPaneCreated(ev PaneCreatedEvent) {
	for _, fn := range handlersSnapshot(e, &e.paneCreated) {
		fn(ev)
	}
}

func (e *Events) emitPaneDestroyed(ev PaneDestroyedEvent) {
	for _, fn := range handlersSnapshot(e, &e.paneDestroyed) {
		fn(ev)
	}
}

func (e *Events) emitWorkingSetAdd(ev WorkingSetAddEvent) {
	for _, fn := range handlersSnapshot(e, &e.workingSetAdd) {
		fn(ev)
	}
}

func (e *Events) emitWorkingSetAddList(ev WorkingSetAddListEvent) {
	for _, fn := range handlersSnapshot(e, &e.workingSetAddList) {
		fn(ev)
	}
}

func (e *Events) emitWorkingSetRemove(ev WorkingSetRemoveEvent) {
	for _, fn := range handlersSnapshot(e, &e.workingSetRemove) {
		fn(ev)
	}
}

func (e *Events) emitWorkingSetRemoveList(ev WorkingSetRemoveListEvent) {
	for _, fn := range handlersSnapshot(e, &e.workingSetRemoveList) {
		fn(ev)
	}
}

func (e *Events) emitWorkingSetSort(ev WorkingSetSortEvent) {
	for _, fn := range handlersSnapshot(e, &e.workingSetSort) {
		fn(ev)
	}
}

func (e *Events) emitWorkingSetUpdate(ev WorkingSetUpdateEvent) {
	for _, fn := range handlersSnapshot(e, &e.workingSetUpdate) {
		fn(ev)
	}
}
