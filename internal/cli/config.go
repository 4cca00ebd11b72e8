package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	var (
		mainBranch      string
		perennials      string
		pushNewBranches string
		setup           bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the arbor configuration",
		Long: `Show the arbor configuration for this repository, change individual
settings with flags, or run the interactive setup with --setup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if setup {
				return runConfigSetup(cmd, a)
			}

			changed := false
			if mainBranch != "" {
				if !a.git.BranchExists(cmd.Context(), mainBranch) {
					return fmt.Errorf("there is no local branch named %q", mainBranch)
				}
				if err := a.options.SetMainBranch(mainBranch); err != nil {
					return err
				}
				changed = true
			}
			if cmd.Flags().Changed("perennials") {
				if err := a.options.SetPerennialBranches(strings.Fields(perennials)); err != nil {
					return err
				}
				changed = true
			}
			if pushNewBranches != "" {
				enabled, err := parseBool(pushNewBranches)
				if err != nil {
					return err
				}
				if err := a.options.SetPushNewBranches(enabled); err != nil {
					return err
				}
				changed = true
			}
			if changed {
				return nil
			}

			a.log.Info("main branch: %s", a.options.MainBranch())
			if list := a.options.PerennialBranches(); len(list) > 0 {
				a.log.Info("perennial branches: %s", strings.Join(list, ", "))
			} else {
				a.log.Info("perennial branches: (none)")
			}
			a.log.Info("push new branches: %v", a.options.ShouldPushNewBranches())
			return nil
		},
	}

	cmd.Flags().StringVar(&mainBranch, "main", "", "Set the main development branch")
	cmd.Flags().StringVar(&perennials, "perennials", "", "Set the perennial branches (space-separated)")
	cmd.Flags().StringVar(&pushNewBranches, "push-new-branches", "", "Push newly created branches to the remote (true/false)")
	cmd.Flags().BoolVar(&setup, "setup", false, "Run the interactive configuration setup")
	return cmd
}

// runConfigSetup walks through all settings interactively
func runConfigSetup(cmd *cobra.Command, a *app) error {
	locals, err := a.git.LocalBranches(cmd.Context())
	if err != nil {
		return err
	}
	if len(locals) == 0 {
		return fmt.Errorf("no local branches found, create a first commit before running setup")
	}

	defaultMain := a.options.MainBranch()
	mainIndex := 0
	for i, name := range locals {
		if name == defaultMain {
			mainIndex = i
			break
		}
	}

	var main string
	if err := survey.AskOne(&survey.Select{
		Message: "Which branch is your main development branch?",
		Options: locals,
		Default: locals[mainIndex],
	}, &main); err != nil {
		return fmt.Errorf("canceled")
	}
	if err := a.options.SetMainBranch(main); err != nil {
		return err
	}

	var candidates []string
	for _, name := range locals {
		if name != main {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) > 0 {
		var perennials []string
		if err := survey.AskOne(&survey.MultiSelect{
			Message: "Which branches are perennial (long-lived, never shipped)?",
			Options: candidates,
			Default: a.options.PerennialBranches(),
		}, &perennials); err != nil {
			return fmt.Errorf("canceled")
		}
		if err := a.options.SetPerennialBranches(perennials); err != nil {
			return err
		}
	}

	pushNew := a.options.ShouldPushNewBranches()
	if err := survey.AskOne(&survey.Confirm{
		Message: "Push newly created branches to the remote?",
		Default: pushNew,
	}, &pushNew); err != nil {
		return fmt.Errorf("canceled")
	}
	if err := a.options.SetPushNewBranches(pushNew); err != nil {
		return err
	}

	a.log.Info("configuration saved")
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
