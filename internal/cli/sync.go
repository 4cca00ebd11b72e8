package cli

import (
	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/workflows"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var flags workflowFlags

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the current branch with its ancestors and the remote",
		Long: `Sync the current branch: merge each ancestor root-first into its child,
pull and push remote counterparts, and return to the branch you started on.

Uncommitted changes are stashed before the run and restored afterwards.`,
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

			if a.git.HasRemote() {
				if err := a.git.Fetch(cmd.Context()); err != nil {
					return err
				}
			}

			planner := &workflows.Planner{Git: a.git, Options: a.options, Lineage: a.lineage}
			plan, err := planner.Sync(cmd.Context())
			if err != nil {
				return err
			}

			opts := runstate.Options{}
			dirty, err := a.git.HasUncommittedChanges(cmd.Context())
			if err != nil {
				return err
			}
			if dirty {
				if err := a.git.StashPush(cmd.Context()); err != nil {
					return err
				}
				opts.StashedChanges = true
			}

			return a.runPlan(plan, opts)
		},
	}

	flags.register(cmd)
	return cmd
}
