package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/output"
	"arbor.dev/arbor/internal/tui"
)

// newParentCmd creates the parent command
func newParentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parent [branch]",
		Short: "Show or reassign the parent of a branch",
		Long: `Show the parent of a branch, or reassign it interactively with --set.

Without a branch argument, operates on the current branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetBool("set")

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
			if a.options.IsMainOrPerennial(branch) {
				return fmt.Errorf("the %s branch has no parent", branch)
			}

			if !set {
				parent := a.lineage.ParentOf(branch)
				if parent == "" {
					return fmt.Errorf("the parent of branch %q is not known, run with --set to assign one", branch)
				}
				a.log.Info("%s", output.ColorBranchName(parent, false))
				return nil
			}

			locals, err := a.git.LocalBranches(cmd.Context())
			if err != nil {
				return err
			}
			parent, err := a.lineage.ResolveParent(branch, locals, tui.NewTerminalPrompt())
			if err != nil {
				return err
			}
			if err := a.lineage.SetParent(branch, parent); err != nil {
				return err
			}
			if err := a.lineage.CacheAncestors(branch); err != nil {
				return err
			}
			a.log.Info("branch %s is now a child of %s",
				output.ColorBranchName(branch, false), output.ColorBranchName(parent, false))
			return nil
		},
	}

	cmd.Flags().Bool("set", false, "Reassign the parent interactively")
	return cmd
}
