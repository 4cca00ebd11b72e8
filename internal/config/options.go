package config

import (
	"strings"
)

// Config keys for repository options
const (
	KeyMainBranch        = "arbor.main-branch"
	KeyPerennialBranches = "arbor.perennial-branches"
	KeyPushNewBranches   = "arbor.push-new-branches"
)

// DefaultMainBranch is assumed when no main branch is configured
const DefaultMainBranch = "main"

// Options exposes the repository-level settings stored in the key/value store
type Options struct {
	store Store
}

// NewOptions creates Options over the given store
func NewOptions(store Store) *Options {
	return &Options{store: store}
}

// MainBranch returns the configured main branch, defaulting to "main"
func (o *Options) MainBranch() string {
	if value, ok := o.store.Get(KeyMainBranch); ok && value != "" {
		return value
	}
	return DefaultMainBranch
}

// SetMainBranch updates the configured main branch
func (o *Options) SetMainBranch(name string) error {
	return o.store.Set(KeyMainBranch, name)
}

// PerennialBranches returns the long-lived branches excluded from ancestry
// tracking, space-joined in the store.
func (o *Options) PerennialBranches() []string {
	value, ok := o.store.Get(KeyPerennialBranches)
	if !ok || value == "" {
		return nil
	}
	return strings.Fields(value)
}

// SetPerennialBranches replaces the perennial branch set
func (o *Options) SetPerennialBranches(branches []string) error {
	if len(branches) == 0 {
		return o.store.Unset(KeyPerennialBranches)
	}
	return o.store.Set(KeyPerennialBranches, strings.Join(branches, " "))
}

// IsPerennial reports whether branch is a perennial branch
func (o *Options) IsPerennial(branch string) bool {
	for _, perennial := range o.PerennialBranches() {
		if perennial == branch {
			return true
		}
	}
	return false
}

// IsMainOrPerennial reports whether branch is the main branch or perennial
func (o *Options) IsMainOrPerennial(branch string) bool {
	return branch == o.MainBranch() || o.IsPerennial(branch)
}

// ShouldPushNewBranches reports whether hack/append should create a remote
// tracking branch for newly created branches.
func (o *Options) ShouldPushNewBranches() bool {
	value, ok := o.store.Get(KeyPushNewBranches)
	return ok && value == "true"
}

// SetPushNewBranches updates the push-new-branches option
func (o *Options) SetPushNewBranches(enabled bool) error {
	if enabled {
		return o.store.Set(KeyPushNewBranches, "true")
	}
	return o.store.Unset(KeyPushNewBranches)
}
