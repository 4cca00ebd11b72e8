package git

import (
	"context"
	"fmt"
)

// MergeResult represents the outcome of a merge-like operation
type MergeResult int

const (
	// MergeDone indicates the merge completed cleanly
	MergeDone MergeResult = iota
	// MergeConflict indicates the merge stopped on a conflict that needs
	// manual resolution
	MergeConflict
)

// Runner defines the version-control primitives used by the step catalog and
// the execution engine. This allows both to run against real git or an
// in-memory fake in tests.
type Runner interface {
	// Repository state
	RepoRoot(ctx context.Context) (string, error)
	HasRemote() bool
	RemoteURL() (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	LocalBranches(ctx context.Context) ([]string, error)
	BranchExists(ctx context.Context, name string) bool
	RemoteBranchExists(ctx context.Context, name string) bool
	Revision(ctx context.Context, name string) (string, error)

	// Branch mutation
	CheckoutBranch(ctx context.Context, name string) error
	CreateAndCheckoutBranch(ctx context.Context, name, parent string) error
	CreateBranchAt(ctx context.Context, name, sha string) error
	DeleteLocalBranch(ctx context.Context, name string) error
	ResetBranchToSha(ctx context.Context, name, sha string) error

	// Merging and conflicts
	MergeBranch(ctx context.Context, branch string) (MergeResult, error)
	MergeAbort(ctx context.Context) error
	IsMergeInProgress(ctx context.Context) bool
	HasUnmergedFiles(ctx context.Context) (bool, error)

	// Remote operations
	Fetch(ctx context.Context) error
	SyncWithRemote(ctx context.Context, branch string) (MergeResult, error)
	PushBranch(ctx context.Context, name string, setUpstream bool) error
	DeleteTrackingBranch(ctx context.Context, name string) error

	// Working tree
	HasUncommittedChanges(ctx context.Context) (bool, error)
	StashPush(ctx context.Context) error
	StashPop(ctx context.Context) error

	// Escape hatch for callers that need raw git access
	RunGitCommand(ctx context.Context, args ...string) (string, error)
}

// realRunner implements Runner against the local repository
type realRunner struct {
	run  *CommandRunner
	repo *Repository
}

// NewRunner opens the repository at workingDir (or the current directory when
// empty) and returns a Runner bound to it.
func NewRunner(workingDir string) (Runner, error) {
	if workingDir == "" {
		workingDir = "."
	}
	repo, err := OpenRepository(workingDir)
	if err != nil {
		return nil, err
	}
	return &realRunner{
		run:  NewCommandRunner(workingDir),
		repo: repo,
	}, nil
}

func (r *realRunner) RepoRoot(ctx context.Context) (string, error) {
	return r.run.Run(ctx, "rev-parse", "--show-toplevel")
}

func (r *realRunner) HasRemote() bool {
	return r.repo.HasRemote()
}

func (r *realRunner) RemoteURL() (string, error) {
	return r.repo.RemoteURL()
}

func (r *realRunner) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := r.run.Run(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return branch, nil
}

func (r *realRunner) LocalBranches(ctx context.Context) ([]string, error) {
	return r.repo.LocalBranchNames()
}

func (r *realRunner) BranchExists(ctx context.Context, name string) bool {
	return r.repo.BranchExists(name)
}

func (r *realRunner) RemoteBranchExists(ctx context.Context, name string) bool {
	_, err := r.run.Run(ctx, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+name)
	return err == nil
}

func (r *realRunner) Revision(ctx context.Context, name string) (string, error) {
	return r.run.Run(ctx, "rev-parse", name)
}

func (r *realRunner) CheckoutBranch(ctx context.Context, name string) error {
	_, err := r.run.Run(ctx, "checkout", name)
	return err
}

func (r *realRunner) CreateAndCheckoutBranch(ctx context.Context, name, parent string) error {
	_, err := r.run.Run(ctx, "checkout", "-b", name, parent)
	return err
}

func (r *realRunner) CreateBranchAt(ctx context.Context, name, sha string) error {
	_, err := r.run.Run(ctx, "branch", name, sha)
	return err
}

func (r *realRunner) DeleteLocalBranch(ctx context.Context, name string) error {
	_, err := r.run.Run(ctx, "branch", "-D", name)
	return err
}

func (r *realRunner) ResetBranchToSha(ctx context.Context, name, sha string) error {
	current, err := r.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current == name {
		_, err = r.run.Run(ctx, "reset", "--hard", sha)
		return err
	}
	_, err = r.run.Run(ctx, "update-ref", "refs/heads/"+name, sha)
	return err
}

func (r *realRunner) MergeBranch(ctx context.Context, branch string) (MergeResult, error) {
	_, err := r.run.Run(ctx, "merge", "--no-edit", branch)
	if err != nil {
		if r.IsMergeInProgress(ctx) {
			return MergeConflict, nil
		}
		return MergeConflict, err
	}
	return MergeDone, nil
}

func (r *realRunner) MergeAbort(ctx context.Context) error {
	_, err := r.run.Run(ctx, "merge", "--abort")
	return err
}

func (r *realRunner) IsMergeInProgress(ctx context.Context) bool {
	_, err := r.run.Run(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil
}

func (r *realRunner) HasUnmergedFiles(ctx context.Context) (bool, error) {
	lines, err := r.run.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return false, err
	}
	return len(lines) > 0, nil
}

func (r *realRunner) Fetch(ctx context.Context) error {
	if !r.HasRemote() {
		return nil
	}
	_, err := r.run.Run(ctx, "fetch", "--prune")
	return err
}

// SyncWithRemote merges the remote counterpart of branch into it. The branch
// must be checked out. Assumes a prior Fetch.
func (r *realRunner) SyncWithRemote(ctx context.Context, branch string) (MergeResult, error) {
	if !r.RemoteBranchExists(ctx, branch) {
		return MergeDone, nil
	}
	return r.MergeBranch(ctx, "origin/"+branch)
}

func (r *realRunner) PushBranch(ctx context.Context, name string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, "origin", name)
	_, err := r.run.Run(ctx, args...)
	return err
}

func (r *realRunner) DeleteTrackingBranch(ctx context.Context, name string) error {
	_, err := r.run.Run(ctx, "push", "origin", ":"+name)
	return err
}

func (r *realRunner) HasUncommittedChanges(ctx context.Context) (bool, error) {
	output, err := r.run.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

func (r *realRunner) StashPush(ctx context.Context) error {
	_, err := r.run.Run(ctx, "stash", "push", "--include-untracked")
	return err
}

func (r *realRunner) StashPop(ctx context.Context) error {
	_, err := r.run.Run(ctx, "stash", "pop")
	return err
}

func (r *realRunner) RunGitCommand(ctx context.Context, args ...string) (string, error) {
	return r.run.Run(ctx, args...)
}
