// Package cli wires the cobra commands. Commands stay thin: they validate
// flags, build the application context, plan through internal/workflows and
// hand the plan to the engine.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Arbor manages hierarchies of feature branches with undoable workflows",
		Long: `Arbor manages hierarchies of feature branches. Every workflow runs as a
transaction: when a step hits a merge conflict the run pauses, and you finish
it with --continue or roll it back with --abort.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newHackCmd())
	rootCmd.AddCommand(newAppendCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newProposeCmd())
	rootCmd.AddCommand(newKillCmd())
	rootCmd.AddCommand(newParentCmd())
	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newUntrackCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
