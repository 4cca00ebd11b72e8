package cli

import (
	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/workflows"
)

// newAppendCmd creates the append command
func newAppendCmd() *cobra.Command {
	var flags workflowFlags

	cmd := &cobra.Command{
		Use:   "append <name>",
		Short: "Create a new branch as a child of the current branch",
		Long: `Create a new branch as a child of the current branch and check it out.

The current branch and its ancestors are synced first. The ancestry of the
current branch must be known; missing parents are prompted for.`,
		Args: cobra.MaximumNArgs(1),
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

			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			current, err := a.currentBranch(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.ensureAncestry(cmd.Context(), []string{current}); err != nil {
				return err
			}

			planner := &workflows.Planner{Git: a.git, Options: a.options, Lineage: a.lineage}
			plan, err := planner.Append(cmd.Context(), name)
			if err != nil {
				return err
			}
			return a.runPlan(plan, runstate.Options{})
		},
	}

	flags.register(cmd)
	return cmd
}
