package hosting

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// GitHubDriver creates pull requests through the GitHub API
type GitHubDriver struct {
	client *github.Client
}

// NewGitHubDriver creates a GitHubDriver authenticated with the given token
func NewGitHubDriver(ctx context.Context, token string) *GitHubDriver {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubDriver{client: github.NewClient(oauth2.NewClient(ctx, source))}
}

// NewGitHubDriverFromEnv creates a GitHubDriver from the ARBOR_GITHUB_TOKEN
// or GITHUB_TOKEN environment variable. Returns nil when no token is set.
func NewGitHubDriverFromEnv(ctx context.Context) *GitHubDriver {
	token := os.Getenv("ARBOR_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil
	}
	return NewGitHubDriver(ctx, token)
}

// Name returns the provider name
func (d *GitHubDriver) Name() string {
	return "GitHub"
}

// CreateReviewRequest opens a pull request for head against base
func (d *GitHubDriver) CreateReviewRequest(ctx context.Context, repo Repo, head, base string) (string, error) {
	pr, _, err := d.client.PullRequests.Create(ctx, repo.Owner, repo.Name, &github.NewPullRequest{
		Title: github.String(head),
		Head:  github.String(head),
		Base:  github.String(base),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create pull request for %s: %w", head, err)
	}
	return pr.GetHTMLURL(), nil
}
