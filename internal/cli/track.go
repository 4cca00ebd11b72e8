package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/output"
)

// newTrackCmd creates the track command
func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track [branch]",
		Short: "Add a branch to the branch hierarchy",
		Long: `Add a branch to the branch hierarchy by recording its parent.

Without a branch argument, tracks the current branch. The parent is resolved
interactively.`,
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
			if !a.git.BranchExists(cmd.Context(), branch) {
				return fmt.Errorf("there is no local branch named %q", branch)
			}
			if a.options.IsMainOrPerennial(branch) {
				return fmt.Errorf("the %s branch is not a feature branch", branch)
			}
			if a.lineage.IsTracked(branch) {
				a.log.Info("branch %s is already tracked", output.ColorBranchName(branch, false))
				return nil
			}

			if err := a.ensureAncestry(cmd.Context(), []string{branch}); err != nil {
				return err
			}
			a.log.Info("branch %s is now tracked", output.ColorBranchName(branch, false))
			return nil
		},
	}

	return cmd
}
