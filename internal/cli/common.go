package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor.dev/arbor/internal/config"
	"arbor.dev/arbor/internal/engine"
	"arbor.dev/arbor/internal/git"
	"arbor.dev/arbor/internal/hosting"
	"arbor.dev/arbor/internal/lineage"
	"arbor.dev/arbor/internal/output"
	"arbor.dev/arbor/internal/runstate"
	"arbor.dev/arbor/internal/steps"
	"arbor.dev/arbor/internal/tui"
)

// app bundles everything a command needs: the git runner, the config store
// and the engine, all rooted at the repository containing the working
// directory.
type app struct {
	git     git.Runner
	store   config.Store
	options *config.Options
	lineage *lineage.Lineage
	log     *output.Splog
	exec    *steps.Context
	engine  *engine.Engine
}

// newApp builds the application context. Fails outside a git repository.
func newApp(ctx context.Context) (*app, error) {
	runner, err := git.NewRunner(".")
	if err != nil {
		return nil, err
	}
	root, err := runner.RepoRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	store := config.NewGitConfigStore(root)
	options := config.NewOptions(store)
	lin := lineage.New(store, options)
	log := output.NewSplog()

	exec := &steps.Context{
		Ctx:     ctx,
		Git:     runner,
		Store:   store,
		Options: options,
		Lineage: lin,
		Log:     log,
	}
	if driver := hosting.NewGitHubDriverFromEnv(ctx); driver != nil {
		exec.Driver = driver
	}

	return &app{
		git:     runner,
		store:   store,
		options: options,
		lineage: lin,
		log:     log,
		exec:    exec,
		engine:  engine.New(exec),
	}, nil
}

// workflowFlags holds the universal --continue / --abort flags
type workflowFlags struct {
	continueRun bool
	abortRun    bool
}

// register adds the flags to a workflow command
func (f *workflowFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.continueRun, "continue", false, "Continue the paused operation after resolving conflicts")
	cmd.Flags().BoolVar(&f.abortRun, "abort", false, "Abort the paused operation and roll back its completed steps")
}

// validate rejects flag combinations that make no sense
func (f *workflowFlags) validate(args []string) error {
	if f.continueRun && f.abortRun {
		return fmt.Errorf("--continue and --abort are mutually exclusive")
	}
	if (f.continueRun || f.abortRun) && len(args) > 0 {
		return fmt.Errorf("--continue and --abort take no arguments")
	}
	return nil
}

// resume dispatches --continue / --abort. The bool reports whether the flags
// handled the invocation.
func (a *app) resume(f *workflowFlags) (bool, error) {
	switch {
	case f.continueRun:
		_, err := a.engine.Continue()
		return true, err
	case f.abortRun:
		return true, a.engine.Abort()
	default:
		return false, nil
	}
}

// runPlan starts a fresh workflow run for an already validated plan
func (a *app) runPlan(plan []steps.Step, opts runstate.Options) error {
	_, err := a.engine.Run(plan, opts)
	return err
}

// currentBranch returns the checked-out branch, rejecting a detached HEAD
func (a *app) currentBranch(ctx context.Context) (string, error) {
	current, err := a.git.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", fmt.Errorf("not on a branch, check out a branch first")
	}
	return current, nil
}

// ensureAncestry makes sure the ancestry of the given branches is known,
// prompting for missing parents through the terminal.
func (a *app) ensureAncestry(ctx context.Context, branches []string) error {
	locals, err := a.git.LocalBranches(ctx)
	if err != nil {
		return err
	}
	return a.lineage.EnsureKnownAncestry(branches, locals, tui.NewTerminalPrompt())
}
