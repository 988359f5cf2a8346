package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewLayoutsCmd creates the layouts command group.
func NewLayoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage persisted workspace layouts",
	}
	cmd.AddCommand(newLayoutsListCmd())
	cmd.AddCommand(newLayoutsShowCmd())
	cmd.AddCommand(newLayoutsPurgeCmd())
	return cmd
}

func newLayoutsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layout snapshots, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := NewCLI(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			infos, err := cli.Layouts.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list layouts: %w", err)
			}
			if len(infos) == 0 {
				cmd.Println("No layout snapshots stored.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROJECT\tPANES\tFILES\tSAVED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
					info.ProjectPath,
					info.PaneCount,
					info.EntryCount,
					info.SavedAt.Format("2006-01-02 15:04:05"),
				)
			}
			return w.Flush()
		},
	}
}

func newLayoutsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-path>",
		Short: "Print one layout snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := NewCLI(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			state, err := cli.Layouts.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load layout: %w", err)
			}
			if state == nil {
				return fmt.Errorf("no layout stored for %s", args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
}

func newLayoutsPurgeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge <project-path>",
		Short: "Delete a project's layout snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete layout for %s? [y/N] ", args[0])
				var answer string
				if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil || (answer != "y" && answer != "Y") {
					cmd.Println("Aborted.")
					return nil
				}
			}

			cli, err := NewCLI(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			if err := cli.Layouts.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete layout: %w", err)
			}
			cmd.Printf("Deleted layout for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
