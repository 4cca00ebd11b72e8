// Package lineage tracks which branch was cut from which. The parent graph
// restricted to non-main branches is a forest rooted at the main branch;
// every mutation goes through SetParent, which rejects cycles and keeps the
// cached ancestor chains consistent.
package lineage

import (
	"fmt"
	"sort"
	"strings"

	"arbor.dev/arbor/internal/config"
	arborerrors "arbor.dev/arbor/internal/errors"
)

const (
	branchKeyPrefix    = "arbor-branch."
	parentKeySuffix    = ".parent"
	ancestorsKeySuffix = ".ancestors"
)

func parentKey(branch string) string {
	return branchKeyPrefix + branch + parentKeySuffix
}

func ancestorsKey(branch string) string {
	return branchKeyPrefix + branch + ancestorsKeySuffix
}

// Lineage stores and queries the branch ancestry forest
type Lineage struct {
	store config.Store
	opts  *config.Options
}

// New creates a Lineage over the given store
func New(store config.Store, opts *config.Options) *Lineage {
	return &Lineage{store: store, opts: opts}
}

// ParentOf returns the recorded parent of branch, or empty when unknown.
// The main branch never has a parent record.
func (l *Lineage) ParentOf(branch string) string {
	parent, _ := l.store.Get(parentKey(branch))
	return parent
}

// SetParent records parent as the immediate parent of branch. An empty parent
// deletes the record; "no parent" and "not yet known" are the same stored
// state. Assignments that would make branch its own ancestor are rejected.
func (l *Lineage) SetParent(branch, parent string) error {
	if parent != "" {
		if parent == branch {
			return fmt.Errorf("%w: branch %q cannot be its own parent", arborerrors.ErrAncestryCycle, branch)
		}
		if l.HasAncestor(parent, branch) {
			return fmt.Errorf("%w: %q is an ancestor of %q", arborerrors.ErrAncestryCycle, branch, parent)
		}
	}

	if parent == "" {
		if err := l.store.Unset(parentKey(branch)); err != nil {
			return err
		}
	} else {
		if err := l.store.Set(parentKey(branch), parent); err != nil {
			return err
		}
	}

	return l.invalidateCaches(branch)
}

// invalidateCaches drops the ancestors cache of branch and of every branch
// whose cached chain runs through it.
func (l *Lineage) invalidateCaches(branch string) error {
	if err := l.store.Unset(ancestorsKey(branch)); err != nil {
		return err
	}
	entries, err := l.store.ListMatching(branchKeyPrefix)
	if err != nil {
		return err
	}
	for key, value := range entries {
		if !strings.HasSuffix(key, ancestorsKeySuffix) {
			continue
		}
		for _, ancestor := range strings.Fields(value) {
			if ancestor == branch {
				if err := l.store.Unset(key); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// AncestorsOf returns the chain of ancestry from the main branch down to, but
// excluding, branch. The result is cache-backed; a missing cache is recomputed
// and stored.
func (l *Lineage) AncestorsOf(branch string) []string {
	if cached, ok := l.store.Get(ancestorsKey(branch)); ok {
		return strings.Fields(cached)
	}
	ancestors := l.RecompileAncestors(branch)
	if len(ancestors) > 0 {
		_ = l.store.Set(ancestorsKey(branch), strings.Join(ancestors, " "))
	}
	return ancestors
}

// RecompileAncestors derives the ancestor chain of branch by walking parent
// links up to the main branch. This is the source of truth the cache must
// always match. Returns the empty sequence for the main branch and for
// branches with no recorded parent.
func (l *Lineage) RecompileAncestors(branch string) []string {
	main := l.opts.MainBranch()
	if branch == main {
		return nil
	}

	var ancestors []string
	seen := map[string]bool{branch: true}
	current := branch
	for {
		parent := l.ParentOf(current)
		if parent == "" || seen[parent] {
			break
		}
		ancestors = append([]string{parent}, ancestors...)
		if parent == main {
			break
		}
		seen[parent] = true
		current = parent
	}
	return ancestors
}

// CacheAncestors recomputes and stores the ancestors cache for branch
func (l *Lineage) CacheAncestors(branch string) error {
	ancestors := l.RecompileAncestors(branch)
	if len(ancestors) == 0 {
		return l.store.Unset(ancestorsKey(branch))
	}
	return l.store.Set(ancestorsKey(branch), strings.Join(ancestors, " "))
}

// HasAncestor reports whether candidate appears in the ancestor chain of
// branch. It walks the parent links directly so the answer is correct even
// when no chain is cached; used for cycle prevention.
func (l *Lineage) HasAncestor(branch, candidate string) bool {
	seen := map[string]bool{}
	current := branch
	for {
		parent := l.ParentOf(current)
		if parent == "" || seen[parent] {
			return false
		}
		if parent == candidate {
			return true
		}
		seen[parent] = true
		current = parent
	}
}

// ChildrenOf returns all branches whose recorded parent is branch, sorted
func (l *Lineage) ChildrenOf(branch string) []string {
	var children []string
	for _, tracked := range l.AllTrackedBranches() {
		if l.ParentOf(tracked) == branch {
			children = append(children, tracked)
		}
	}
	return children
}

// AllTrackedBranches returns every branch with a parent record, sorted
func (l *Lineage) AllTrackedBranches() []string {
	entries, err := l.store.ListMatching(branchKeyPrefix)
	if err != nil {
		return nil
	}
	var branches []string
	for key := range entries {
		if !strings.HasSuffix(key, parentKeySuffix) {
			continue
		}
		branch := strings.TrimSuffix(strings.TrimPrefix(key, branchKeyPrefix), parentKeySuffix)
		branches = append(branches, branch)
	}
	sort.Strings(branches)
	return branches
}

// IsTracked reports whether branch has a parent record
func (l *Lineage) IsTracked(branch string) bool {
	return l.ParentOf(branch) != ""
}

// UpdateChildPointers repoints every child of oldBranch to newParent,
// invalidating their ancestor caches. Used when a branch is removed from the
// hierarchy and its children must reattach above it.
func (l *Lineage) UpdateChildPointers(oldBranch, newParent string) error {
	for _, child := range l.ChildrenOf(oldBranch) {
		if err := l.SetParent(child, newParent); err != nil {
			return fmt.Errorf("failed to repoint %s onto %s: %w", child, newParent, err)
		}
	}
	return nil
}
