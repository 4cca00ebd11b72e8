package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/tui"
	"arbor.dev/arbor/internal/workflows"
)

// newHackCmd creates the hack command
func newHackCmd() *cobra.Command {
	var flags workflowFlags

	cmd := &cobra.Command{
		Use:   "hack [name]",
		Short: "Create a new feature branch off the main branch",
		Long: `Create a new feature branch off the main branch and check it out.

The main branch is synced first. With no name, prompts for one.`,
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
				name, err = tui.PromptTextInput("Name for the new branch", "")
				if err != nil {
					return err
				}
				if name == "" {
					return fmt.Errorf("no branch name given")
				}
			}

			planner := &workflows.Planner{Git: a.git, Options: a.options, Lineage: a.lineage}
			plan, err := planner.Hack(cmd.Context(), name)
			if err != nil {
				return err
			}
			return a.runPlan(plan, runstate.Options{})
		},
	}

	flags.register(cmd)
	return cmd
}
