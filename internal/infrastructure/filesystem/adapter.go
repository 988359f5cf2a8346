// Package filesystem adapts the OS filesystem to the collaborator
// contracts of the pane-management core.
package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/loom-editor/loom/internal/application/port"
	"github.com/loom-editor/loom/internal/domain/entity"
)

// fileRef is a plain disk-backed file reference.
type fileRef struct {
	path string
}

func (f fileRef) FullPath() string { return f.path }
func (f fileRef) Untitled() bool   { return false }

// Adapter implements port.Filesystem and port.ProjectBoundary for a
// project rooted at a directory.
type Adapter struct {
	projectRoot string
}

// New creates a filesystem adapter. projectRoot may be empty, in which
// case every path counts as in-project.
func New(projectRoot string) *Adapter {
	if projectRoot != "" {
		projectRoot = filepath.Clean(projectRoot)
	}
	return &Adapter{projectRoot: projectRoot}
}

// GetFileForPath returns the ref for an absolute path. Refs compare by
// path; the file need not exist yet.
func (a *Adapter) GetFileForPath(path string) entity.FileRef {
	if path == "" {
		return nil
	}
	return fileRef{path: filepath.Clean(path)}
}

// IsWithinProject reports whether path lives under the project root.
func (a *Adapter) IsWithinProject(path string) bool {
	if a.projectRoot == "" {
		return true
	}
	rel, err := filepath.Rel(a.projectRoot, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

var (
	_ port.Filesystem      = (*Adapter)(nil)
	_ port.ProjectBoundary = (*Adapter)(nil)
)
