// Package cli provides the loomctl command-line interface for
// inspecting and maintaining persisted workspace layouts.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loom-editor/loom/internal/config"
	"github.com/loom-editor/loom/internal/domain/repository"
	"github.com/loom-editor/loom/internal/infrastructure/persistence/sqlite"
	"github.com/loom-editor/loom/internal/logging"
)

// CLI holds the database connection and repository shared by the
// commands.
type CLI struct {
	DB      *sql.DB
	Layouts repository.LayoutStateRepository
	Config  *config.Config
}

// NewCLI opens the layout database from configuration.
func NewCLI(ctx context.Context) (*CLI, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if err := manager.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := manager.Get()

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout database: %w", err)
	}

	return &CLI{
		DB:      db,
		Layouts: sqlite.NewLayoutStateRepository(db),
		Config:  cfg,
	}, nil
}

// Close closes the database connection.
func (c *CLI) Close() error {
	return sqlite.Close(c.DB)
}

// NewRootCmd creates the root command for loomctl.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	root := &cobra.Command{
		Use:          "loomctl",
		Short:        "Inspect and maintain loom workspace layouts",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.NewFromEnv()
			cmd.SetContext(logging.WithContext(cmd.Context(), logger))
			return nil
		},
	}

	root.AddCommand(NewLayoutsCmd())
	return root
}
