package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/infrastructure/viewstate"
)

func newTestPane() *Pane {
	return newPane("first-pane", &stubContainer{id: "first-pane-container"}, viewstate.NewStore(), stubFS{})
}

// addShown registers a view for path, adds its file to the working set
// and displays it.
func addShown(ctx context.Context, p *Pane, path string) *stubView {
	view := &stubView{file: stubFile{path: path}, container: p.container}
	p.AddView(view)
	p.AddToWorkingSet(view.file, -1, false)
	p.ShowView(ctx, view)
	return view
}

func TestPane_ShowView_SwitchesCurrent(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	first := addShown(ctx, p, "/src/a.go")
	second := addShown(ctx, p, "/src/b.go")

	assert.Same(t, second, p.CurrentView())
	assert.False(t, first.visible)
	assert.True(t, second.visible)
	// Both files are in the working set, so neither view is destroyed.
	assert.False(t, first.destroyed)
}

func TestPane_ShowView_SameViewOnlyRefreshesLayout(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	view := addShown(ctx, p, "/src/a.go")

	updatesBefore := view.layoutUpdates
	notified := 0
	p.onCurrentViewChanged = func(context.Context, port.View, port.View) { notified++ }

	p.ShowView(ctx, view)
	p.ShowView(ctx, view)

	assert.Equal(t, 0, notified)
	assert.Equal(t, updatesBefore+2, view.layoutUpdates)
	assert.Equal(t, 2, view.forcedUpdates)
}

func TestPane_ShowView_PersistsOutgoingViewState(t *testing.T) {
	ctx := context.Background()
	store := viewstate.NewStore()
	p := newPane("first-pane", &stubContainer{id: "c"}, store, stubFS{})

	first := addShown(ctx, p, "/src/a.go")
	first.state = map[string]int{"scroll": 42}
	addShown(ctx, p, "/src/b.go")

	assert.Equal(t, map[string]int{"scroll": 42}, store.ViewState(stubFile{path: "/src/a.go"}))
}

func TestPane_ShowView_DestroysReplacedTemporaryView(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	// Temporary: registered and shown but never added to the working set.
	temp := &stubView{file: stubFile{path: "/src/temp.go"}}
	p.AddView(temp)
	p.ShowView(ctx, temp)

	addShown(ctx, p, "/src/b.go")

	assert.True(t, temp.destroyed)
	assert.Nil(t, p.viewForPath("/src/temp.go"))
}

func TestPane_RemoveView_CurrentFallsBackToInterstitial(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	only := addShown(ctx, p, "/src/a.go")
	require.True(t, p.RemoveView(ctx, only.file, false))

	assert.Nil(t, p.CurrentView())
	assert.True(t, only.destroyed)
	assert.Equal(t, 0, p.WorkingSetSize())
}

func TestPane_RemoveView_AutoAdvancesToMRUNext(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	first := addShown(ctx, p, "/src/a.go")
	second := addShown(ctx, p, "/src/b.go")

	var requested []string
	p.onOpenRequest = func(ctx context.Context, f entity.FileRef) error {
		requested = append(requested, f.FullPath())
		p.ShowView(ctx, p.viewForPath(f.FullPath()))
		return nil
	}

	require.True(t, p.RemoveView(ctx, second.file, false))

	assert.Equal(t, []string{"/src/a.go"}, requested)
	assert.Same(t, first, p.CurrentView())
	assert.True(t, second.destroyed)
}

func TestPane_RemoveView_SuppressedAutoAdvance(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	addShown(ctx, p, "/src/a.go")
	second := addShown(ctx, p, "/src/b.go")

	called := false
	p.onOpenRequest = func(context.Context, entity.FileRef) error {
		called = true
		return nil
	}

	require.True(t, p.RemoveView(ctx, second.file, true))

	assert.False(t, called)
	assert.Nil(t, p.CurrentView())
}

func TestPane_RemoveFromWorkingSet_SparesDisplayedView(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	shown := addShown(ctx, p, "/src/a.go")
	require.True(t, p.RemoveFromWorkingSet(shown.file))

	// The view keeps displaying as a temporary until replaced.
	assert.Same(t, shown, p.CurrentView())
	assert.False(t, shown.destroyed)

	addShown(ctx, p, "/src/b.go")
	assert.True(t, shown.destroyed)
}

func TestPane_MergeFrom(t *testing.T) {
	ctx := context.Background()
	first := newTestPane()
	second := newPane("second-pane", &stubContainer{id: "second-pane-container"}, viewstate.NewStore(), stubFS{})

	addShown(ctx, first, "/src/a.go")
	moved := addShown(ctx, second, "/src/b.go")
	addShown(ctx, second, "/src/c.go")

	first.MergeFrom(ctx, second)

	assert.Equal(t, 3, first.WorkingSetSize())
	assert.Equal(t, 0, second.WorkingSetSize())
	assert.Same(t, moved, first.viewForPath("/src/b.go"))
	assert.Same(t, first.container, moved.container)
	assert.Nil(t, second.CurrentView())
	assert.False(t, moved.destroyed)
}

func TestPane_MergeFrom_DestroysOtherTemporaryCurrent(t *testing.T) {
	ctx := context.Background()
	first := newTestPane()
	second := newPane("second-pane", &stubContainer{id: "second-pane-container"}, viewstate.NewStore(), stubFS{})

	temp := &stubView{file: stubFile{path: "/src/temp.go"}}
	second.AddView(temp)
	second.ShowView(ctx, temp)
	second.RemoveFromWorkingSet(temp.file)

	first.MergeFrom(ctx, second)

	assert.True(t, temp.destroyed)
	assert.Equal(t, 0, first.WorkingSetSize())
}

func TestPane_SaveState_SkipsUntitled(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	addShown(ctx, p, "/src/a.go")
	untitled := &stubView{file: stubFile{path: "untitled-1", untitled: true}}
	p.AddView(untitled)
	p.AddToWorkingSet(untitled.file, -1, false)
	shown := addShown(ctx, p, "/src/b.go")
	shown.state = "state-b"

	entries := p.SaveState()

	require.Len(t, entries, 2)
	assert.Equal(t, "/src/a.go", entries[0].Path)
	assert.False(t, entries[0].Active)
	assert.Equal(t, "/src/b.go", entries[1].Path)
	assert.True(t, entries[1].Active)
	assert.Equal(t, "state-b", entries[1].ViewState)
}

func TestPane_LoadState(t *testing.T) {
	ctx := context.Background()
	p := newTestPane()

	entries := []entity.PaneEntryState{
		{Path: "/src/a.go", ViewState: "state-a"},
		{Path: "/src/b.go", Active: true},
		{Path: "/src/c.go"},
	}

	fileToOpen, accepted, err := p.LoadState(ctx, entries)

	require.NoError(t, err)
	require.NotNil(t, fileToOpen)
	assert.Equal(t, "/src/b.go", fileToOpen.FullPath())
	assert.Len(t, accepted, 3)
	assert.Equal(t, 3, p.WorkingSetSize())
	assert.Equal(t, "state-a", p.store.ViewState(stubFile{path: "/src/a.go"}))
	// Nothing is displayed yet; the caller issues the open.
	assert.Nil(t, p.CurrentView())
}
