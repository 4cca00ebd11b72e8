package cli

import (
	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/workflows"
)

// newProposeCmd creates the propose command
func newProposeCmd() *cobra.Command {
	var flags workflowFlags

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Open a review request for the current branch against its parent",
		Long: `Open a review request for the current branch against its parent branch.

The branch chain is synced first and a tracking branch is created when the
branch has no remote counterpart yet. Requires a GitHub token in
ARBOR_GITHUB_TOKEN or GITHUB_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(args); err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if handled, err := a.resume(&flags); handled {
				return err
			}

			current, err := a.currentBranch(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.ensureAncestry(cmd.Context(), []string{current}); err != nil {
				return err
			}

			if err := a.git.Fetch(cmd.Context()); err != nil {
				return err
			}

			planner := &workflows.Planner{Git: a.git, Options: a.options, Lineage: a.lineage}
			plan, err := planner.Propose(cmd.Context())
			if err != nil {
				return err
			}
			return a.runPlan(plan, runstate.Options{})
		},
	}

	flags.register(cmd)
	return cmd
}
