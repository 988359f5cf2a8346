// Package port defines the collaborator contracts consumed by the
// pane-management core. Concrete editors, viewers, filesystems and
// stores live outside this module and implement these interfaces.
package port

import "github.com/loom-editor/loom/internal/domain/entity"

// Container is an opaque handle for the visual region a view lives in.
// Containers form a tree; walking Parent links resolves which pane
// region hosts an embedded widget.
type Container interface {
	// ID returns a stable identifier for the container.
	ID() string
	// Parent returns the enclosing container, or nil at the root.
	Parent() Container
}

// View is one open representation of a file: a text editor or a custom
// viewer. A view is owned by exactly one pane and destroyed when no
// working set references it and it is not the current view.
type View interface {
	// File returns the file this view presents.
	File() entity.FileRef
	// SetVisible shows or hides the view.
	SetVisible(visible bool)
	// UpdateLayout recomputes the view's layout. force requests a
	// full refresh even when the geometry is unchanged.
	UpdateLayout(force bool)
	// Destroy releases the view. The view must not be used after.
	Destroy()
	// Focus gives the view keyboard focus.
	Focus()
	// ScrollPos returns the current scroll position.
	ScrollPos() any
	// RestoreScrollPos re-applies a previously captured scroll position.
	RestoreScrollPos(pos any)
	// SwitchContainer re-parents the view into another container.
	SwitchContainer(c Container)
	// Container returns the container currently hosting the view.
	Container() Container
	// ViewState returns the opaque transient state (scroll, selection)
	// to persist when the view is hidden or serialized.
	ViewState() any
	// RestoreViewState re-applies previously captured view state.
	RestoreViewState(state any)
}

// ViewHost is the surface a pane exposes to view factories and editor
// providers so they can attach the views they create.
type ViewHost interface {
	// ID returns the pane id.
	ID() string
	// Container returns the pane's container for parenting widgets.
	Container() Container
	// AddView associates a created view with the pane.
	AddView(view View)
}
