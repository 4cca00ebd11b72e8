// Package hosting integrates with code-hosting providers for review-request
// creation. Drivers are pluggable; only the GitHub driver ships today.
package hosting

import (
	"context"
	"fmt"
	"strings"
)

// Repo identifies a hosted repository
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo parses an "owner/name" slug
func ParseRepo(slug string) (Repo, error) {
	owner, name, found := strings.Cut(slug, "/")
	if !found || owner == "" || name == "" {
		return Repo{}, fmt.Errorf("invalid repository slug %q, expected owner/name", slug)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// ParseRepoURL extracts the repository from a git remote URL. Supports the
// ssh (git@host:owner/name.git) and https (https://host/owner/name) forms.
func ParseRepoURL(raw string) (Repo, error) {
	path := raw
	switch {
	case strings.HasPrefix(raw, "git@"):
		_, after, found := strings.Cut(raw, ":")
		if !found {
			return Repo{}, fmt.Errorf("unrecognized remote URL %q", raw)
		}
		path = after
	case strings.Contains(raw, "://"):
		_, after, _ := strings.Cut(raw, "://")
		_, after, found := strings.Cut(after, "/")
		if !found {
			return Repo{}, fmt.Errorf("unrecognized remote URL %q", raw)
		}
		path = after
	default:
		return Repo{}, fmt.Errorf("unrecognized remote URL %q", raw)
	}

	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("unrecognized remote URL %q", raw)
	}
	return Repo{Owner: parts[0], Name: parts[1]}, nil
}

// Driver creates review requests on a code-hosting provider
type Driver interface {
	// Name returns the provider name, for display
	Name() string
	// CreateReviewRequest opens a review request for head against base and
	// returns its URL
	CreateReviewRequest(ctx context.Context, repo Repo, head, base string) (string, error)
}
