package workspace

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/domain/repository"
	"github.com/loom-editor/loom/internal/logging"
)

// Pane identifiers. The workspace holds at most two panes; FirstPane
// always exists, SecondPane exists only while split.
const (
	FirstPane  = "first-pane"
	SecondPane = "second-pane"
)

// Scope selectors accepted wherever an operation takes a pane id.
const (
	// ActivePane resolves to whichever pane currently has focus.
	ActivePane = "ACTIVE_PANE"
	// AllPanes addresses every pane; for per-file operations each file
	// is routed to the pane that owns it.
	AllPanes = "ALL_PANES"
)

var (
	// ErrBadArgument reports a nil file, an unknown pane id, or an
	// otherwise malformed request. State is unchanged.
	ErrBadArgument = errors.New("bad argument")
	// ErrUnsupportedFileType reports a path no editor or view factory
	// can present. State is unchanged.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrInvalidLayoutScheme reports a rows/columns combination outside
	// the supported 1x1, 1x2, 2x1 schemes. State is unchanged.
	ErrInvalidLayoutScheme = errors.New("invalid layout scheme")
)

// Config carries the collaborators a Manager coordinates. Filesystem,
// Documents and Editor are required for text editing; the rest are
// optional and degrade the matching feature when absent.
type Config struct {
	Filesystem port.Filesystem
	Documents  port.DocumentProvider
	Editor     port.EditorOpener
	Factories  port.ViewFactoryRegistry
	ViewStates port.ViewStateStore
	Project    port.ProjectBoundary
	Containers port.ContainerFactory
	Layouts    repository.LayoutStateRepository
}

// mruEntry is one slot of the global recency order. Entries are keyed
// by (file, pane): the same path never appears in two working sets, but
// keeping the pane id lets traversal land focus in the right pane.
type mruEntry struct {
	File   entity.FileRef
	PaneID string
}

// Manager is the view-management coordinator: it owns the panes, the
// active-pane pointer, the split orientation and the global MRU order,
// routes open/close/split/merge requests, and emits every workspace
// event. All public methods are safe for concurrent use; one mutex
// serializes mutations so each operation's event sequence is atomic.
type Manager struct {
	mu sync.Mutex

	fs         port.Filesystem
	docs       port.DocumentProvider
	editor     port.EditorOpener
	factories  port.ViewFactoryRegistry
	store      port.ViewStateStore
	project    port.ProjectBoundary
	containers port.ContainerFactory
	layouts    repository.LayoutStateRepository

	panes        []*Pane
	activePaneID string
	orientation  entity.Orientation

	mru        []mruEntry
	traversing bool

	events *Events
	// loadGroup coalesces concurrent document loads for the same path
	// so overlapping opens of one file share a single read.
	loadGroup singleflight.Group
}

// NewManager creates a coordinator with a single unsplit pane, which
// starts active.
func NewManager(ctx context.Context, cfg Config) *Manager {
	containers := cfg.Containers
	if containers == nil {
		containers = inertContainerFactory{}
	}
	m := &Manager{
		fs:         cfg.Filesystem,
		docs:       cfg.Documents,
		editor:     cfg.Editor,
		factories:  cfg.Factories,
		store:      cfg.ViewStates,
		project:    cfg.Project,
		containers: containers,
		layouts:    cfg.Layouts,
		events:     NewEvents(),
	}

	m.createPaneLocked(ctx, FirstPane)
	m.activePaneID = FirstPane

	logging.FromContext(ctx).Debug().
		Str("active_pane", m.activePaneID).
		Msg("workspace manager created")
	return m
}

// Events returns the manager's notification dispatcher.
func (m *Manager) Events() *Events {
	return m.events
}

// createPaneLocked builds a pane, wires its callbacks into the
// coordinator and registers it. Emits pane-created.
func (m *Manager) createPaneLocked(ctx context.Context, id string) *Pane {
	container := m.containers.CreateContainer(id)
	pane := newPane(id, container, m.store, m.fs)
	pane.onCurrentViewChanged = func(ctx context.Context, newView, oldView port.View) {
		m.handleCurrentViewChangedLocked(ctx, pane, newView, oldView)
	}
	// Auto-advance after a close only targets files with a live view,
	// so this re-entrant call stays on the non-blocking fast path.
	pane.onOpenRequest = func(ctx context.Context, file entity.FileRef) error {
		_, err := m.openLocked(ctx, pane.id, file, OpenOptions{AvoidActivation: true})
		return err
	}
	m.panes = append(m.panes, pane)
	m.events.emitPaneCreated(PaneCreatedEvent{PaneID: id})
	return pane
}

func (m *Manager) handleCurrentViewChangedLocked(ctx context.Context, pane *Pane, newView, oldView port.View) {
	var newFile, oldFile entity.FileRef
	if newView != nil {
		newFile = newView.File()
	}
	if oldView != nil {
		oldFile = oldView.File()
	}
	m.events.emitCurrentFileChanged(CurrentFileChangedEvent{
		NewFile:   newFile,
		NewPaneID: pane.id,
		OldFile:   oldFile,
		OldPaneID: pane.id,
	})
	m.makeFileMostRecentLocked(pane.id, newFile)
}

// resolvePaneLocked maps a pane id or the ActivePane selector to a
// pane. Returns nil for AllPanes and unknown ids.
func (m *Manager) resolvePaneLocked(paneID string) *Pane {
	if paneID == ActivePane {
		paneID = m.activePaneID
	}
	for _, pane := range m.panes {
		if pane.id == paneID {
			return pane
		}
	}
	return nil
}

// scopePanesLocked expands a pane id or scope selector to the panes it
// addresses.
func (m *Manager) scopePanesLocked(paneID string) []*Pane {
	if paneID == AllPanes {
		out := make([]*Pane, len(m.panes))
		copy(out, m.panes)
		return out
	}
	if pane := m.resolvePaneLocked(paneID); pane != nil {
		return []*Pane{pane}
	}
	return nil
}

// findPaneWithPathLocked returns the pane whose working set contains
// path, or nil. At most one pane can: cross-pane uniqueness.
func (m *Manager) findPaneWithPathLocked(path string) *Pane {
	for _, pane := range m.panes {
		if pane.InWorkingSet(path) {
			return pane
		}
	}
	return nil
}

// findPaneDisplayingLocked extends the working-set search to live
// views, catching files displayed temporarily.
func (m *Manager) findPaneDisplayingLocked(path string) *Pane {
	if pane := m.findPaneWithPathLocked(path); pane != nil {
		return pane
	}
	for _, pane := range m.panes {
		if pane.viewForPath(path) != nil {
			return pane
		}
		if cur := pane.CurrentFile(); cur != nil && cur.FullPath() == path {
			return pane
		}
	}
	return nil
}

// PaneIDs returns the ids of all live panes, first pane first.
func (m *Manager) PaneIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.panes))
	for i, pane := range m.panes {
		ids[i] = pane.id
	}
	return ids
}

// PaneCount returns the number of live panes (1 or 2).
func (m *Manager) PaneCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.panes)
}

// ActivePaneID returns the id of the focused pane.
func (m *Manager) ActivePaneID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activePaneID
}

// Orientation returns the current split orientation;
// entity.OrientationNone while unsplit.
func (m *Manager) Orientation() entity.Orientation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orientation
}

// CurrentlyViewedFile returns the file displayed in the addressed pane,
// or nil. Accepts ActivePane.
func (m *Manager) CurrentlyViewedFile(paneID string) entity.FileRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return nil
	}
	return pane.CurrentFile()
}

// CurrentlyViewedPath returns the full path displayed in the addressed
// pane, or "".
func (m *Manager) CurrentlyViewedPath(paneID string) string {
	return entity.PathOf(m.CurrentlyViewedFile(paneID))
}

// WorkingSet returns a copy of a pane's working set in the requested
// order. Accepts ActivePane; AllPanes concatenates pane by pane.
func (m *Manager) WorkingSet(paneID string, order entity.ListOrder) []entity.FileRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.FileRef
	for _, pane := range m.scopePanesLocked(paneID) {
		out = append(out, pane.WorkingSetFiles(order)...)
	}
	return out
}

// WorkingSetSize returns the addressed working set's size; AllPanes
// sums across panes.
func (m *Manager) WorkingSetSize(paneID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, pane := range m.scopePanesLocked(paneID) {
		total += pane.WorkingSetSize()
	}
	return total
}

// IndexInWorkingSet returns path's position in a pane's ordering, or -1.
func (m *Manager) IndexInWorkingSet(paneID string, order entity.ListOrder, path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pane := m.resolvePaneLocked(paneID)
	if pane == nil {
		return -1
	}
	return pane.IndexInWorkingSet(order, path)
}

// FindPaneWithPath returns the id of the pane whose working set
// contains path, or "".
func (m *Manager) FindPaneWithPath(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pane := m.findPaneWithPathLocked(path); pane != nil {
		return pane.id
	}
	return ""
}

// SetActivePane moves focus to the addressed pane. Switching emits
// active-pane-changed then current-file-changed, promotes the newly
// current file in the recency order, and focuses the pane's view.
// Unknown ids and no-op switches change nothing.
func (m *Manager) SetActivePane(ctx context.Context, paneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setActivePaneLocked(ctx, paneID)
}

func (m *Manager) setActivePaneLocked(ctx context.Context, paneID string) {
	pane := m.resolvePaneLocked(paneID)
	if pane == nil || pane.id == m.activePaneID {
		return
	}

	oldPaneID := m.activePaneID
	var oldFile entity.FileRef
	if oldPane := m.resolvePaneLocked(oldPaneID); oldPane != nil {
		oldFile = oldPane.CurrentFile()
	}

	m.activePaneID = pane.id
	m.events.emitActivePaneChanged(ActivePaneChangedEvent{
		NewPaneID: pane.id,
		OldPaneID: oldPaneID,
	})

	newFile := pane.CurrentFile()
	m.events.emitCurrentFileChanged(CurrentFileChangedEvent{
		NewFile:   newFile,
		NewPaneID: pane.id,
		OldFile:   oldFile,
		OldPaneID: oldPaneID,
	})
	m.makeFileMostRecentLocked(pane.id, newFile)

	if view := pane.CurrentView(); view != nil {
		view.Focus()
	}

	logging.FromContext(ctx).Debug().
		Str("pane_id", pane.id).
		Str("old_pane_id", oldPaneID).
		Msg("active pane changed")
}

// inertContainerFactory backs headless use: containers exist only as
// parent chains for focus routing.
type inertContainerFactory struct{}

func (inertContainerFactory) CreateContainer(paneID string) port.Container {
	return inertContainer{id: paneID}
}

func (inertContainerFactory) DestroyContainer(port.Container) {}

type inertContainer struct {
	id string
}

func (c inertContainer) ID() string             { return c.id }
func (c inertContainer) Parent() port.Container { return nil }
