// Package testhelpers provides an in-memory git.Runner so the step catalog,
// the planners and the engine can be tested without a real repository.
package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"arbor.dev/arbor/internal/git"
)

// FakeRunner is an in-memory implementation of git.Runner. Branches map to
// fake revisions; conflicts are injected per merged-branch name. Every
// mutation is appended to Log for assertions on command order.
type FakeRunner struct {
	Root           string
	Current        string
	Branches       map[string]string
	RemoteBranches map[string]string
	Remote         bool
	URL            string

	// ConflictOnMerge makes merging the named branch report a conflict once
	ConflictOnMerge map[string]bool

	// FailOnPush makes pushing the named branch fail
	FailOnPush map[string]bool

	MergeInProgress bool
	UnmergedFiles   bool
	Uncommitted     bool
	StashDepth      int

	Log      []string
	revision int
}

// NewFakeRunner creates a fake repository with the given branches, checked
// out on the first one.
func NewFakeRunner(branches ...string) *FakeRunner {
	f := &FakeRunner{
		Root:            "/repo",
		Branches:        map[string]string{},
		RemoteBranches:  map[string]string{},
		ConflictOnMerge: map[string]bool{},
		FailOnPush:      map[string]bool{},
	}
	for _, name := range branches {
		f.Branches[name] = f.nextRevision()
	}
	if len(branches) > 0 {
		f.Current = branches[0]
	}
	return f
}

// WithRemote enables the remote with the given URL and mirrors every local
// branch to it.
func (f *FakeRunner) WithRemote(url string) *FakeRunner {
	f.Remote = true
	f.URL = url
	for name, sha := range f.Branches {
		f.RemoteBranches[name] = sha
	}
	return f
}

func (f *FakeRunner) nextRevision() string {
	f.revision++
	return fmt.Sprintf("sha%04d", f.revision)
}

func (f *FakeRunner) record(format string, args ...any) {
	f.Log = append(f.Log, fmt.Sprintf(format, args...))
}

// LoggedCommands returns the mutation log joined for compact assertions
func (f *FakeRunner) LoggedCommands() string {
	return strings.Join(f.Log, "\n")
}

func (f *FakeRunner) RepoRoot(ctx context.Context) (string, error) {
	return f.Root, nil
}

func (f *FakeRunner) HasRemote() bool {
	return f.Remote
}

func (f *FakeRunner) RemoteURL() (string, error) {
	if !f.Remote {
		return "", fmt.Errorf("no remote configured")
	}
	return f.URL, nil
}

func (f *FakeRunner) CurrentBranch(ctx context.Context) (string, error) {
	return f.Current, nil
}

func (f *FakeRunner) LocalBranches(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.Branches))
	for name := range f.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FakeRunner) BranchExists(ctx context.Context, name string) bool {
	_, ok := f.Branches[name]
	return ok
}

func (f *FakeRunner) RemoteBranchExists(ctx context.Context, name string) bool {
	_, ok := f.RemoteBranches[name]
	return ok
}

func (f *FakeRunner) Revision(ctx context.Context, name string) (string, error) {
	sha, ok := f.Branches[name]
	if !ok {
		return "", fmt.Errorf("unknown revision %q", name)
	}
	return sha, nil
}

func (f *FakeRunner) CheckoutBranch(ctx context.Context, name string) error {
	if !f.BranchExists(ctx, name) {
		return fmt.Errorf("branch %q does not exist", name)
	}
	f.Current = name
	f.record("checkout %s", name)
	return nil
}

func (f *FakeRunner) CreateAndCheckoutBranch(ctx context.Context, name, parent string) error {
	if f.BranchExists(ctx, name) {
		return fmt.Errorf("branch %q already exists", name)
	}
	parentSha, ok := f.Branches[parent]
	if !ok {
		return fmt.Errorf("branch %q does not exist", parent)
	}
	f.Branches[name] = parentSha
	f.Current = name
	f.record("create-and-checkout %s %s", name, parent)
	return nil
}

func (f *FakeRunner) CreateBranchAt(ctx context.Context, name, sha string) error {
	if f.BranchExists(ctx, name) {
		return fmt.Errorf("branch %q already exists", name)
	}
	f.Branches[name] = sha
	f.record("create-branch %s %s", name, sha)
	return nil
}

func (f *FakeRunner) DeleteLocalBranch(ctx context.Context, name string) error {
	if !f.BranchExists(ctx, name) {
		return fmt.Errorf("branch %q does not exist", name)
	}
	if f.Current == name {
		return fmt.Errorf("cannot delete the checked-out branch %q", name)
	}
	delete(f.Branches, name)
	f.record("delete-branch %s", name)
	return nil
}

func (f *FakeRunner) ResetBranchToSha(ctx context.Context, name, sha string) error {
	if !f.BranchExists(ctx, name) {
		return fmt.Errorf("branch %q does not exist", name)
	}
	f.Branches[name] = sha
	f.record("reset %s %s", name, sha)
	return nil
}

func (f *FakeRunner) MergeBranch(ctx context.Context, branch string) (git.MergeResult, error) {
	if f.ConflictOnMerge[branch] {
		delete(f.ConflictOnMerge, branch)
		f.MergeInProgress = true
		f.UnmergedFiles = true
		f.record("merge %s (conflict)", branch)
		return git.MergeConflict, nil
	}
	name := strings.TrimPrefix(branch, "origin/")
	if name != branch {
		if _, ok := f.RemoteBranches[name]; !ok {
			return git.MergeConflict, fmt.Errorf("unknown branch %q", branch)
		}
	} else if !f.BranchExists(ctx, branch) {
		return git.MergeConflict, fmt.Errorf("unknown branch %q", branch)
	}
	f.Branches[f.Current] = f.nextRevision()
	f.record("merge %s", branch)
	return git.MergeDone, nil
}

func (f *FakeRunner) MergeAbort(ctx context.Context) error {
	f.MergeInProgress = false
	f.UnmergedFiles = false
	f.record("merge-abort")
	return nil
}

func (f *FakeRunner) IsMergeInProgress(ctx context.Context) bool {
	return f.MergeInProgress
}

func (f *FakeRunner) HasUnmergedFiles(ctx context.Context) (bool, error) {
	return f.UnmergedFiles, nil
}

func (f *FakeRunner) Fetch(ctx context.Context) error {
	f.record("fetch")
	return nil
}

func (f *FakeRunner) SyncWithRemote(ctx context.Context, branch string) (git.MergeResult, error) {
	if _, ok := f.RemoteBranches[branch]; !ok {
		return git.MergeDone, nil
	}
	return f.MergeBranch(ctx, "origin/"+branch)
}

func (f *FakeRunner) PushBranch(ctx context.Context, name string, setUpstream bool) error {
	if f.FailOnPush[name] {
		return fmt.Errorf("failed to push %q", name)
	}
	f.RemoteBranches[name] = f.Branches[name]
	if setUpstream {
		f.record("push -u %s", name)
	} else {
		f.record("push %s", name)
	}
	return nil
}

func (f *FakeRunner) DeleteTrackingBranch(ctx context.Context, name string) error {
	if _, ok := f.RemoteBranches[name]; !ok {
		return fmt.Errorf("no tracking branch for %q", name)
	}
	delete(f.RemoteBranches, name)
	f.record("delete-tracking %s", name)
	return nil
}

func (f *FakeRunner) HasUncommittedChanges(ctx context.Context) (bool, error) {
	return f.Uncommitted, nil
}

func (f *FakeRunner) StashPush(ctx context.Context) error {
	f.StashDepth++
	f.Uncommitted = false
	f.record("stash-push")
	return nil
}

func (f *FakeRunner) StashPop(ctx context.Context) error {
	if f.StashDepth == 0 {
		return fmt.Errorf("no stash entries")
	}
	f.StashDepth--
	f.Uncommitted = true
	f.record("stash-pop")
	return nil
}

func (f *FakeRunner) RunGitCommand(ctx context.Context, args ...string) (string, error) {
	f.record("git %s", strings.Join(args, " "))
	return "", nil
}
