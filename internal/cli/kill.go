package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/tui"
	"arbor.dev/arbor/internal/workflows"
)

// newKillCmd creates the kill command
func newKillCmd() *cobra.Command {
	var flags workflowFlags
	var yes bool

	cmd := &cobra.Command{
		Use:   "kill [name]",
		Short: "Remove a feature branch",
		Long: `Remove a feature branch locally and, when it has a tracking branch, on the
remote. Children of the removed branch become children of its parent.

Without a name, removes the current branch.`,
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
			if name == "" {
				name, err = a.currentBranch(cmd.Context())
				if err != nil {
					return err
				}
			}

			planner := &workflows.Planner{Git: a.git, Options: a.options, Lineage: a.lineage}
			plan, err := planner.Kill(cmd.Context(), name)
			if err != nil {
				return err
			}

			if !yes {
				confirmed, err := tui.PromptConfirm(fmt.Sprintf("Remove branch %q? This deletes it locally and on the remote.", name), false)
				if err != nil {
					return err
				}
				if !confirmed {
					a.log.Info("branch %s was not removed", name)
					return nil
				}
			}

			return a.runPlan(plan, runstate.Options{})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
