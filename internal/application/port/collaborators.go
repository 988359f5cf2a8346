package port

import (
	"context"

	"github.com/loom-editor/loom/internal/domain/entity"
)

// Filesystem resolves paths to file refs. It is the only source of
// entity.FileRef values.
type Filesystem interface {
	// GetFileForPath returns the ref for an absolute path.
	GetFileForPath(path string) entity.FileRef
}

// Document is an already-resolved text document, used for files that
// may not yet exist on disk.
type Document interface {
	// File returns the file backing the document.
	File() entity.FileRef
	// Untitled reports whether the document has never been saved.
	Untitled() bool
}

// DocumentProvider loads text documents. GetDocumentForPath may block
// on disk or network; callers pass a context and must tolerate other
// operations being issued while a load is in flight.
type DocumentProvider interface {
	GetDocumentForPath(ctx context.Context, path string) (Document, error)
}

// EditorOpener materializes editor views for text documents.
type EditorOpener interface {
	// CanOpenPath reports whether the path is editable text.
	CanOpenPath(path string) bool
	// OpenDocument creates (or reuses) an editor view for doc inside
	// the host pane and returns it. The returned view is not yet
	// shown; the coordinator decides that.
	OpenDocument(ctx context.Context, doc Document, host ViewHost) (View, error)
}

// ViewFactory creates custom (non-editor) views for the paths it
// claims, e.g. image viewers.
type ViewFactory interface {
	// OpenFile creates the view and registers it with host.AddView.
	// The coordinator shows it afterwards.
	OpenFile(ctx context.Context, file entity.FileRef, host ViewHost) error
}

// ViewFactoryRegistry resolves the factory responsible for a path.
type ViewFactoryRegistry interface {
	// FindFactory returns the factory for path, or nil when no
	// factory claims it.
	FindFactory(path string) ViewFactory
}

// ViewStateStore holds opaque per-file view state (scroll position,
// selection) across view destruction and restarts.
type ViewStateStore interface {
	SetViewState(file entity.FileRef, state any)
	ViewState(file entity.FileRef) any
	// SetAllViewStates bulk-loads state keyed by full path.
	SetAllViewStates(states map[string]any)
	// AllViewStates returns a snapshot keyed by full path.
	AllViewStates() map[string]any
	Reset()
}

// ProjectBoundary answers whether a path belongs to the tracked
// project tree. Out-of-project files are pinned into the working set
// when opened so they stay reachable.
type ProjectBoundary interface {
	IsWithinProject(path string) bool
}

// ContainerFactory creates and tears down the visual regions panes
// render into. The default implementation is inert; embedding UIs
// supply a real one.
type ContainerFactory interface {
	CreateContainer(paneID string) Container
	DestroyContainer(c Container)
}
