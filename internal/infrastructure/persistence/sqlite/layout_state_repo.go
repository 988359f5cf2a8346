package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/loom-editor/loom/internal/domain/entity"
	"github.com/loom-editor/loom/internal/domain/repository"
	"github.com/loom-editor/loom/internal/logging"
)

type layoutStateRepo struct {
	db *sql.DB
}

// NewLayoutStateRepository creates a layout snapshot repository backed
// by db.
func NewLayoutStateRepository(db *sql.DB) repository.LayoutStateRepository {
	return &layoutStateRepo{db: db}
}

// Save stores or replaces the snapshot for a project.
func (r *layoutStateRepo) Save(ctx context.Context, projectPath string, state *entity.LayoutState) error {
	log := logging.FromContext(ctx)
	if projectPath == "" {
		return errors.New("project path cannot be empty")
	}
	if state == nil {
		return errors.New("layout state cannot be nil")
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal layout state")
		return err
	}

	log.Debug().
		Str("project_path", projectPath).
		Int("pane_count", len(state.Panes)).
		Int("entry_count", state.CountEntries()).
		Msg("saving layout snapshot")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("snapshot rollback reported non-terminal error")
		}
	}()

	const upsert = `
INSERT INTO layout_states (id, project_path, state_json, version, pane_count, entry_count, saved_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_path) DO UPDATE SET
	state_json  = excluded.state_json,
	version     = excluded.version,
	pane_count  = excluded.pane_count,
	entry_count = excluded.entry_count,
	saved_at    = excluded.saved_at
`
	if _, err := tx.ExecContext(ctx, upsert,
		uuid.NewString(),
		projectPath,
		string(stateJSON),
		int64(state.Version),
		int64(len(state.Panes)),
		int64(state.CountEntries()),
		state.SavedAt,
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}

	return nil
}

// Load returns the snapshot for a project, or (nil, nil) when none is
// stored.
func (r *layoutStateRepo) Load(ctx context.Context, projectPath string) (*entity.LayoutState, error) {
	const query = `SELECT state_json FROM layout_states WHERE project_path = ?`

	var stateJSON string
	if err := r.db.QueryRowContext(ctx, query, projectPath).Scan(&stateJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var state entity.LayoutState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("project_path", projectPath).
			Msg("failed to unmarshal layout state")
		return nil, err
	}

	return &state, nil
}

// Delete removes a project's snapshot. Missing snapshots are ignored.
func (r *layoutStateRepo) Delete(ctx context.Context, projectPath string) error {
	logging.FromContext(ctx).Debug().
		Str("project_path", projectPath).
		Msg("deleting layout snapshot")
	_, err := r.db.ExecContext(ctx, `DELETE FROM layout_states WHERE project_path = ?`, projectPath)
	return err
}

// List returns summaries of all stored snapshots, newest first.
func (r *layoutStateRepo) List(ctx context.Context) ([]repository.LayoutStateInfo, error) {
	const query = `
SELECT id, project_path, pane_count, entry_count, saved_at
FROM layout_states
ORDER BY saved_at DESC
`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var infos []repository.LayoutStateInfo
	for rows.Next() {
		var info repository.LayoutStateInfo
		if err := rows.Scan(&info.ID, &info.ProjectPath, &info.PaneCount, &info.EntryCount, &info.SavedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
