package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/output"
)

// newUntrackCmd creates the untrack command
func newUntrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untrack [branch]",
		Short: "Remove a branch from the branch hierarchy",
		Long: `Remove a branch from the branch hierarchy. The branch itself is kept;
its children become children of its parent.

Without a branch argument, untracks the current branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			branch := ""
			if len(args) > 0 {
				branch = args[0]
			}
			if branch == "" {
				branch, err = a.currentBranch(cmd.Context())
				if err != nil {
					return err
				}
			}
			if !a.lineage.IsTracked(branch) {
				return fmt.Errorf("branch %q is not tracked", branch)
			}

			parent := a.lineage.ParentOf(branch)
			if err := a.lineage.UpdateChildPointers(branch, parent); err != nil {
				return err
			}
			if err := a.lineage.SetParent(branch, ""); err != nil {
				return err
			}
			a.log.Info("branch %s is no longer tracked", output.ColorBranchName(branch, false))
			return nil
		},
	}

	return cmd
}
