// Package workflows contains one step planner per workflow command. Planners
// run against validated preconditions and produce strictly ordered plans with
// every decision already made; the same repository state and configuration
// always yields the same plan.
package workflows

import (
	"context"
	"fmt"

	"arbor.dev/arbor/internal/config"
	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/git"
	"arbor.dev/arbor/internal/hosting"
	"arbor.dev/arbor/internal/lineage"
	"arbor.dev/arbor/internal/steps"
)

// Planner bundles the collaborators planners read from. Planners never write.
type Planner struct {
	Git     git.Runner
	Options *config.Options
	Lineage *lineage.Lineage
}

// syncChain emits a sync-branch step for each ancestor of branch root-first,
// then for branch itself.
func (p *Planner) syncChain(branch string) []steps.Step {
	var plan []steps.Step
	for _, ancestor := range p.Lineage.AncestorsOf(branch) {
		plan = append(plan, &steps.SyncBranch{Branch: ancestor})
	}
	return append(plan, &steps.SyncBranch{Branch: branch})
}

// Hack plans the create-feature-branch workflow: sync the main branch, then
// cut and check out the new branch off it. A tracking branch is added only
// when a remote exists and push-new-branches is enabled.
func (p *Planner) Hack(ctx context.Context, name string) ([]steps.Step, error) {
	if name == "" {
		return nil, fmt.Errorf("no branch name given")
	}
	if p.Git.BranchExists(ctx, name) {
		return nil, fmt.Errorf("a branch named %q already exists", name)
	}

	main := p.Options.MainBranch()
	plan := []steps.Step{
		&steps.SyncBranch{Branch: main},
		&steps.CreateAndCheckout{Branch: name, Parent: main},
	}
	if p.Git.HasRemote() && p.Options.ShouldPushNewBranches() {
		plan = append(plan, &steps.CreateTrackingBranch{Branch: name})
	}
	return plan, nil
}

// Append plans a child branch of the current branch: sync the whole ancestry
// chain, then cut the new branch off the current one. Requires the current
// branch's ancestry to be fully known.
func (p *Planner) Append(ctx context.Context, name string) ([]steps.Step, error) {
	if name == "" {
		return nil, fmt.Errorf("no branch name given")
	}
	if p.Git.BranchExists(ctx, name) {
		return nil, fmt.Errorf("a branch named %q already exists", name)
	}
	current, err := p.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	plan := p.syncChain(current)
	plan = append(plan, &steps.CreateAndCheckout{Branch: name, Parent: current})
	if p.Git.HasRemote() && p.Options.ShouldPushNewBranches() {
		plan = append(plan, &steps.CreateTrackingBranch{Branch: name})
	}
	return plan, nil
}

// Sync plans syncing the current branch with its ancestors and remote:
// every ancestor root-first, then the branch itself, then a checkout back to
// the branch the user started on.
func (p *Planner) Sync(ctx context.Context) ([]steps.Step, error) {
	current, err := p.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	if current == "" {
		return nil, fmt.Errorf("not on a branch")
	}
	plan := p.syncChain(current)
	return append(plan, &steps.Checkout{Branch: current}), nil
}

// Propose plans opening a review request for the current branch against its
// parent: sync the chain, create the tracking branch when the branch has no
// remote counterpart yet, then create the review request.
func (p *Planner) Propose(ctx context.Context) ([]steps.Step, error) {
	if !p.Git.HasRemote() {
		return nil, fmt.Errorf("cannot propose without a remote repository")
	}
	current, err := p.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	if p.Options.IsMainOrPerennial(current) {
		return nil, fmt.Errorf("cannot propose the %s branch, check out a feature branch first", current)
	}
	parent := p.Lineage.ParentOf(current)
	if parent == "" {
		return nil, fmt.Errorf("ancestry of branch %q is unknown", current)
	}

	remoteURL, err := p.Git.RemoteURL()
	if err != nil {
		return nil, err
	}
	repo, err := hosting.ParseRepoURL(remoteURL)
	if err != nil {
		return nil, err
	}

	plan := p.syncChain(current)
	if !p.Git.RemoteBranchExists(ctx, current) {
		plan = append(plan, &steps.CreateTrackingBranch{Branch: current})
	}
	plan = append(plan, &steps.CreateReviewRequest{
		Repository: repo.String(),
		Head:       current,
		Base:       parent,
	})
	return plan, nil
}

// Kill plans removing a feature branch: its children repoint to its parent,
// the tracking branch (if any) is deleted, then the local branch. When the
// branch to remove is checked out, its parent is checked out first.
func (p *Planner) Kill(ctx context.Context, name string) ([]steps.Step, error) {
	if name == "" {
		return nil, fmt.Errorf("no branch name given")
	}
	if p.Options.IsMainOrPerennial(name) {
		return nil, fmt.Errorf("cannot kill the %s branch", name)
	}
	if !p.Git.BranchExists(ctx, name) {
		return nil, arborerrors.NewBranchNotFoundError(name)
	}

	parent := p.Lineage.ParentOf(name)
	if parent == "" {
		parent = p.Options.MainBranch()
	}

	var plan []steps.Step
	current, err := p.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	if current == name {
		plan = append(plan, &steps.Checkout{Branch: parent})
	}
	for _, child := range p.Lineage.ChildrenOf(name) {
		plan = append(plan, &steps.SetParent{Branch: child, Parent: parent})
	}
	if p.Git.HasRemote() && p.Git.RemoteBranchExists(ctx, name) {
		plan = append(plan, &steps.DeleteTrackingBranch{Branch: name})
	}
	plan = append(plan, &steps.DeleteLocalBranch{Branch: name})
	return plan, nil
}
