// Package repository defines persistence contracts for domain entities.
package repository

import (
	"context"
	"time"

	"github.com/loom-editor/loom/internal/domain/entity"
)

// LayoutStateInfo summarizes one stored snapshot for listings.
type LayoutStateInfo struct {
	ID          string
	ProjectPath string
	PaneCount   int
	EntryCount  int
	SavedAt     time.Time
}

// LayoutStateRepository stores workspace layout snapshots keyed by
// project path. One snapshot per project; saving replaces the
// previous one.
type LayoutStateRepository interface {
	// Save stores or replaces the snapshot for a project.
	Save(ctx context.Context, projectPath string, state *entity.LayoutState) error
	// Load returns the snapshot for a project, or (nil, nil) when
	// none is stored.
	Load(ctx context.Context, projectPath string) (*entity.LayoutState, error)
	// Delete removes a project's snapshot. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, projectPath string) error
	// List returns summaries of all stored snapshots, newest first.
	List(ctx context.Context) ([]LayoutStateInfo, error)
}
