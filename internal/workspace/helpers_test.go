package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/infrastructure/viewstate"
)

type stubFile struct {
	path     string
	untitled bool
}

func (f stubFile) FullPath() string { return f.path }
func (f stubFile) Untitled() bool   { return f.untitled }

func file(path string) entity.FileRef { return stubFile{path: path} }

type stubContainer struct {
	id     string
	parent port.Container
}

func (c *stubContainer) ID() string             { return c.id }
func (c *stubContainer) Parent() port.Container { return c.parent }

type stubContainerFactory struct {
	destroyed []string
}

func (f *stubContainerFactory) CreateContainer(paneID string) port.Container {
	return &stubContainer{id: paneID + "-container"}
}

func (f *stubContainerFactory) DestroyContainer(c port.Container) {
	f.destroyed = append(f.destroyed, c.ID())
}

type stubView struct {
	file          entity.FileRef
	visible       bool
	destroyed     bool
	focused       int
	layoutUpdates int
	forcedUpdates int
	container     port.Container
	state         any
}

func (v *stubView) File() entity.FileRef { return v.file }
func (v *stubView) SetVisible(visible bool) {
	v.visible = visible
}
func (v *stubView) UpdateLayout(force bool) {
	v.layoutUpdates++
	if force {
		v.forcedUpdates++
	}
}
func (v *stubView) Destroy()                        { v.destroyed = true }
func (v *stubView) Focus()                          { v.focused++ }
func (v *stubView) ScrollPos() any                  { return v.state }
func (v *stubView) RestoreScrollPos(any)            {}
func (v *stubView) SwitchContainer(c port.Container) { v.container = c }
func (v *stubView) Container() port.Container       { return v.container }
func (v *stubView) ViewState() any                  { return v.state }
func (v *stubView) RestoreViewState(state any)      { v.state = state }

type stubFS struct{}

func (stubFS) GetFileForPath(path string) entity.FileRef {
	if path == "" {
		return nil
	}
	return stubFile{path: path}
}

type stubDoc struct {
	file     entity.FileRef
	untitled bool
}

func (d stubDoc) File() entity.FileRef { return d.file }
func (d stubDoc) Untitled() bool       { return d.untitled }

type stubDocs struct {
	mu    sync.Mutex
	loads []string
	err   error
}

func (d *stubDocs) GetDocumentForPath(_ context.Context, path string) (port.Document, error) {
	d.mu.Lock()
	d.loads = append(d.loads, path)
	d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return stubDoc{file: stubFile{path: path}}, nil
}

type stubEditor struct {
	canOpen func(path string) bool
	created []*stubView
	err     error
}

func (e *stubEditor) CanOpenPath(path string) bool {
	if e.canOpen != nil {
		return e.canOpen(path)
	}
	return strings.HasSuffix(path, ".go") || strings.HasSuffix(path, ".txt")
}

func (e *stubEditor) OpenDocument(_ context.Context, doc port.Document, host port.ViewHost) (port.View, error) {
	if e.err != nil {
		return nil, e.err
	}
	view := &stubView{file: doc.File(), container: host.Container()}
	e.created = append(e.created, view)
	return view, nil
}

type stubFactory struct {
	created []*stubView
	err     error
}

func (f *stubFactory) OpenFile(_ context.Context, file entity.FileRef, host port.ViewHost) error {
	if f.err != nil {
		return f.err
	}
	view := &stubView{file: file, container: host.Container()}
	f.created = append(f.created, view)
	host.AddView(view)
	return nil
}

type stubRegistry struct {
	suffix  string
	factory *stubFactory
}

func (r *stubRegistry) FindFactory(path string) port.ViewFactory {
	if r.factory != nil && strings.HasSuffix(path, r.suffix) {
		return r.factory
	}
	return nil
}

type stubProject struct {
	root string
}

func (p stubProject) IsWithinProject(path string) bool {
	if p.root == "" {
		return true
	}
	return strings.HasPrefix(path, p.root)
}

// eventLog records every emitted event as a flat label so tests can
// assert on both content and order.
type eventLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *eventLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *eventLog) ofKind(kind string) []string {
	var out []string
	for _, entry := range l.all() {
		if strings.HasPrefix(entry, kind) {
			out = append(out, entry)
		}
	}
	return out
}

func (l *eventLog) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func recordEvents(m *Manager) *eventLog {
	log := &eventLog{}
	ev := m.Events()
	ev.OnActivePaneChanged(func(e ActivePaneChangedEvent) {
		log.add(fmt.Sprintf("active-pane-changed %s->%s", e.OldPaneID, e.NewPaneID))
	})
	ev.OnCurrentFileChanged(func(e CurrentFileChangedEvent) {
		log.add(fmt.Sprintf("current-file-changed %s %s", e.NewPaneID, entity.PathOf(e.NewFile)))
	})
	ev.OnPaneLayoutChanged(func(e PaneLayoutChangedEvent) {
		log.add(fmt.Sprintf("pane-layout-changed %s", e.Orientation))
	})
	ev.OnPaneCreated(func(e PaneCreatedEvent) {
		log.add(fmt.Sprintf("pane-created %s", e.PaneID))
	})
	ev.OnPaneDestroyed(func(e PaneDestroyedEvent) {
		log.add(fmt.Sprintf("pane-destroyed %s", e.PaneID))
	})
	ev.OnWorkingSetAdd(func(e WorkingSetAddEvent) {
		log.add(fmt.Sprintf("working-set-add %s %s %d", e.PaneID, entity.PathOf(e.File), e.Index))
	})
	ev.OnWorkingSetAddList(func(e WorkingSetAddListEvent) {
		log.add(fmt.Sprintf("working-set-add-list %s %d", e.PaneID, len(e.Files)))
	})
	ev.OnWorkingSetRemove(func(e WorkingSetRemoveEvent) {
		log.add(fmt.Sprintf("working-set-remove %s %s", e.PaneID, entity.PathOf(e.File)))
	})
	ev.OnWorkingSetRemoveList(func(e WorkingSetRemoveListEvent) {
		log.add(fmt.Sprintf("working-set-remove-list %s %d", e.PaneID, len(e.Files)))
	})
	ev.OnWorkingSetSort(func(e WorkingSetSortEvent) {
		log.add(fmt.Sprintf("working-set-sort %s", e.PaneID))
	})
	ev.OnWorkingSetUpdate(func(e WorkingSetUpdateEvent) {
		log.add(fmt.Sprintf("working-set-update %s", e.PaneID))
	})
	return log
}

// fixture bundles the fakes one test manager runs against.
type fixture struct {
	fs         stubFS
	docs       *stubDocs
	editor     *stubEditor
	factory    *stubFactory
	registry   *stubRegistry
	project    *stubProject
	containers *stubContainerFactory
	events     *eventLog
}

func newTestManager(t *testing.T) (*Manager, *fixture) {
	t.Helper()
	f := &fixture{
		docs:       &stubDocs{},
		editor:     &stubEditor{},
		factory:    &stubFactory{},
		project:    &stubProject{},
		containers: &stubContainerFactory{},
	}
	f.registry = &stubRegistry{suffix: ".png", factory: f.factory}

	m := NewManager(context.Background(), Config{
		Filesystem: f.fs,
		Documents:  f.docs,
		Editor:     f.editor,
		Factories:  f.registry,
		ViewStates: viewstate.NewStore(),
		Project:    f.project,
		Containers: f.containers,
	})
	f.events = recordEvents(m)
	return m, f
}

func mustOpen(t *testing.T, m *Manager, paneID, path string) {
	t.Helper()
	if _, err := m.Open(context.Background(), paneID, file(path), OpenOptions{}); err != nil {
		t.Fatalf("open %s in %s: %v", path, paneID, err)
	}
}
