package steps

import (
	"fmt"

	"arbor.dev/arbor/internal/git"
	"arbor.dev/arbor/internal/hosting"
)

// Step kind tags, one per catalog entry
const (
	KindSyncBranch           = "sync-branch"
	KindCreateAndCheckout    = "create-and-checkout"
	KindCreateTrackingBranch = "create-tracking-branch"
	KindDeleteTrackingBranch = "delete-tracking-branch"
	KindCreateReviewRequest  = "create-review-request"
	KindCheckout             = "checkout"
	KindSetParent            = "set-parent"
	KindResetBranch          = "reset-branch"
	KindDiscardBranch        = "discard-branch"
	KindDeleteLocalBranch    = "delete-local-branch"
	KindRestoreBranch        = "restore-branch"
)

// SyncBranch brings a branch up to date with its parent and its remote
// counterpart. For the main branch and perennials only the remote part runs.
type SyncBranch struct {
	Branch string
}

func (s *SyncBranch) Kind() string   { return KindSyncBranch }
func (s *SyncBranch) Args() []string { return []string{s.Branch} }

func (s *SyncBranch) ComputeUndo(c *Context) (Step, bool) {
	sha, err := c.Git.Revision(c.Ctx, s.Branch)
	if err != nil {
		return nil, false
	}
	return &ResetBranch{Branch: s.Branch, Sha: sha}, true
}

func (s *SyncBranch) Execute(c *Context) (Outcome, error) {
	current, err := c.Git.CurrentBranch(c.Ctx)
	if err != nil {
		return Done, err
	}
	if current != s.Branch {
		if err := c.Git.CheckoutBranch(c.Ctx, s.Branch); err != nil {
			return Done, err
		}
	}

	if !c.Options.IsMainOrPerennial(s.Branch) {
		if parent := c.Lineage.ParentOf(s.Branch); parent != "" {
			result, err := c.Git.MergeBranch(c.Ctx, parent)
			if err != nil {
				return Done, err
			}
			if result == git.MergeConflict {
				return NeedsResolution, nil
			}
		}
	}

	if c.Git.HasRemote() {
		result, err := c.Git.SyncWithRemote(c.Ctx, s.Branch)
		if err != nil {
			return Done, err
		}
		if result == git.MergeConflict {
			return NeedsResolution, nil
		}
		if c.Git.RemoteBranchExists(c.Ctx, s.Branch) {
			if err := c.Git.PushBranch(c.Ctx, s.Branch, false); err != nil {
				return Done, err
			}
		}
	}

	c.Log.Debug("synced branch %s", s.Branch)
	return Done, nil
}

// CreateAndCheckout creates a new branch off Parent, checks it out, and
// records the parent in the lineage.
type CreateAndCheckout struct {
	Branch string
	Parent string
}

func (s *CreateAndCheckout) Kind() string   { return KindCreateAndCheckout }
func (s *CreateAndCheckout) Args() []string { return []string{s.Branch, s.Parent} }

func (s *CreateAndCheckout) ComputeUndo(c *Context) (Step, bool) {
	previous, err := c.Git.CurrentBranch(c.Ctx)
	if err != nil || previous == "" {
		previous = c.Options.MainBranch()
	}
	return &DiscardBranch{Branch: s.Branch, Checkout: previous}, true
}

func (s *CreateAndCheckout) Execute(c *Context) (Outcome, error) {
	if c.Git.BranchExists(c.Ctx, s.Branch) {
		return Done, fmt.Errorf("branch %q already exists", s.Branch)
	}
	if err := c.Git.CreateAndCheckoutBranch(c.Ctx, s.Branch, s.Parent); err != nil {
		return Done, err
	}
	if err := c.Lineage.SetParent(s.Branch, s.Parent); err != nil {
		return Done, err
	}
	return Done, nil
}

// CreateTrackingBranch pushes a branch and sets its upstream
type CreateTrackingBranch struct {
	Branch string
}

func (s *CreateTrackingBranch) Kind() string   { return KindCreateTrackingBranch }
func (s *CreateTrackingBranch) Args() []string { return []string{s.Branch} }

func (s *CreateTrackingBranch) ComputeUndo(c *Context) (Step, bool) {
	return &DeleteTrackingBranch{Branch: s.Branch}, true
}

func (s *CreateTrackingBranch) Execute(c *Context) (Outcome, error) {
	return Done, c.Git.PushBranch(c.Ctx, s.Branch, true)
}

// DeleteTrackingBranch removes the remote counterpart of a branch
type DeleteTrackingBranch struct {
	Branch string
}

func (s *DeleteTrackingBranch) Kind() string   { return KindDeleteTrackingBranch }
func (s *DeleteTrackingBranch) Args() []string { return []string{s.Branch} }

func (s *DeleteTrackingBranch) ComputeUndo(c *Context) (Step, bool) {
	return &CreateTrackingBranch{Branch: s.Branch}, true
}

func (s *DeleteTrackingBranch) Execute(c *Context) (Outcome, error) {
	return Done, c.Git.DeleteTrackingBranch(c.Ctx, s.Branch)
}

// CreateReviewRequest opens a review request through the hosting driver.
// Not reversible.
type CreateReviewRequest struct {
	Repository string // owner/name slug
	Head       string
	Base       string
}

func (s *CreateReviewRequest) Kind() string { return KindCreateReviewRequest }
func (s *CreateReviewRequest) Args() []string {
	return []string{s.Repository, s.Head, s.Base}
}

func (s *CreateReviewRequest) ComputeUndo(c *Context) (Step, bool) {
	return nil, false
}

func (s *CreateReviewRequest) Execute(c *Context) (Outcome, error) {
	if c.Driver == nil {
		return Done, fmt.Errorf("no code-hosting driver configured, set ARBOR_GITHUB_TOKEN")
	}
	repo, err := hosting.ParseRepo(s.Repository)
	if err != nil {
		return Done, err
	}
	url, err := c.Driver.CreateReviewRequest(c.Ctx, repo, s.Head, s.Base)
	if err != nil {
		return Done, err
	}
	c.Log.Info("created review request %s", url)
	return Done, nil
}

// Checkout switches to a branch
type Checkout struct {
	Branch string
}

func (s *Checkout) Kind() string   { return KindCheckout }
func (s *Checkout) Args() []string { return []string{s.Branch} }

func (s *Checkout) ComputeUndo(c *Context) (Step, bool) {
	previous, err := c.Git.CurrentBranch(c.Ctx)
	if err != nil || previous == "" || previous == s.Branch {
		return nil, false
	}
	return &Checkout{Branch: previous}, true
}

func (s *Checkout) Execute(c *Context) (Outcome, error) {
	current, err := c.Git.CurrentBranch(c.Ctx)
	if err == nil && current == s.Branch {
		return Done, nil
	}
	return Done, c.Git.CheckoutBranch(c.Ctx, s.Branch)
}

// SetParent records (or, with an empty Parent, deletes) a lineage entry
type SetParent struct {
	Branch string
	Parent string
}

func (s *SetParent) Kind() string   { return KindSetParent }
func (s *SetParent) Args() []string { return []string{s.Branch, marshalParent(s.Parent)} }

func (s *SetParent) ComputeUndo(c *Context) (Step, bool) {
	return &SetParent{Branch: s.Branch, Parent: c.Lineage.ParentOf(s.Branch)}, true
}

func (s *SetParent) Execute(c *Context) (Outcome, error) {
	return Done, c.Lineage.SetParent(s.Branch, s.Parent)
}

// ResetBranch moves a branch back to a recorded revision. Appears only in
// undo histories.
type ResetBranch struct {
	Branch string
	Sha    string
}

func (s *ResetBranch) Kind() string   { return KindResetBranch }
func (s *ResetBranch) Args() []string { return []string{s.Branch, s.Sha} }

func (s *ResetBranch) ComputeUndo(c *Context) (Step, bool) {
	sha, err := c.Git.Revision(c.Ctx, s.Branch)
	if err != nil {
		return nil, false
	}
	return &ResetBranch{Branch: s.Branch, Sha: sha}, true
}

func (s *ResetBranch) Execute(c *Context) (Outcome, error) {
	return Done, c.Git.ResetBranchToSha(c.Ctx, s.Branch, s.Sha)
}

// DiscardBranch deletes a freshly created branch and returns to the branch
// that was checked out before it. Appears only in undo histories.
type DiscardBranch struct {
	Branch   string
	Checkout string
}

func (s *DiscardBranch) Kind() string   { return KindDiscardBranch }
func (s *DiscardBranch) Args() []string { return []string{s.Branch, s.Checkout} }

func (s *DiscardBranch) ComputeUndo(c *Context) (Step, bool) {
	return nil, false
}

func (s *DiscardBranch) Execute(c *Context) (Outcome, error) {
	current, err := c.Git.CurrentBranch(c.Ctx)
	if err == nil && current == s.Branch {
		if err := c.Git.CheckoutBranch(c.Ctx, s.Checkout); err != nil {
			return Done, err
		}
	}
	if c.Git.BranchExists(c.Ctx, s.Branch) {
		if err := c.Git.DeleteLocalBranch(c.Ctx, s.Branch); err != nil {
			return Done, err
		}
	}
	return Done, c.Lineage.SetParent(s.Branch, "")
}

// DeleteLocalBranch removes a branch and its lineage record
type DeleteLocalBranch struct {
	Branch string
}

func (s *DeleteLocalBranch) Kind() string   { return KindDeleteLocalBranch }
func (s *DeleteLocalBranch) Args() []string { return []string{s.Branch} }

func (s *DeleteLocalBranch) ComputeUndo(c *Context) (Step, bool) {
	sha, err := c.Git.Revision(c.Ctx, s.Branch)
	if err != nil {
		return nil, false
	}
	return &RestoreBranch{Branch: s.Branch, Sha: sha, Parent: c.Lineage.ParentOf(s.Branch)}, true
}

func (s *DeleteLocalBranch) Execute(c *Context) (Outcome, error) {
	if err := c.Git.DeleteLocalBranch(c.Ctx, s.Branch); err != nil {
		return Done, err
	}
	return Done, c.Lineage.SetParent(s.Branch, "")
}

// RestoreBranch recreates a deleted branch at a recorded revision and
// restores its lineage record. Appears only in undo histories.
type RestoreBranch struct {
	Branch string
	Sha    string
	Parent string
}

func (s *RestoreBranch) Kind() string { return KindRestoreBranch }
func (s *RestoreBranch) Args() []string {
	return []string{s.Branch, s.Sha, marshalParent(s.Parent)}
}

func (s *RestoreBranch) ComputeUndo(c *Context) (Step, bool) {
	return nil, false
}

func (s *RestoreBranch) Execute(c *Context) (Outcome, error) {
	if err := c.Git.CreateBranchAt(c.Ctx, s.Branch, s.Sha); err != nil {
		return Done, err
	}
	if s.Parent == "" {
		return Done, nil
	}
	return Done, c.Lineage.SetParent(s.Branch, s.Parent)
}
