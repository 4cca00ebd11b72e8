package git_test

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/git"
)

// initRunner creates a fresh git repository in a temp directory and returns a
// runner rooted there.
func initRunner(t *testing.T) *git.CommandRunner {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	return git.NewCommandRunner(dir)
}

func TestCommandRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("run returns trimmed output", func(t *testing.T) {
		run := initRunner(t)

		output, err := run.Run(ctx, "rev-parse", "--is-inside-work-tree")
		require.NoError(t, err)
		require.Equal(t, "true", output)
	})

	t.Run("run lines splits output into lines", func(t *testing.T) {
		run := initRunner(t)
		_, err := run.Run(ctx, "config", "--local", "arbor-branch.feature.parent", "main")
		require.NoError(t, err)
		_, err = run.Run(ctx, "config", "--local", "arbor-branch.payments.parent", "main")
		require.NoError(t, err)

		lines, err := run.RunLines(ctx, "config", "--local", "--name-only", "--get-regexp", `^arbor-branch\.`)
		require.NoError(t, err)
		require.Equal(t, []string{"arbor-branch.feature.parent", "arbor-branch.payments.parent"}, lines)
	})

	t.Run("run lines on empty output is an empty slice", func(t *testing.T) {
		run := initRunner(t)

		lines, err := run.RunLines(ctx, "tag", "--list")
		require.NoError(t, err)
		require.Empty(t, lines)
	})

	t.Run("failed command carries the exit code", func(t *testing.T) {
		run := initRunner(t)

		// Unsetting a key that was never set exits with code 5
		_, err := run.Run(ctx, "config", "--local", "--unset", "arbor.main-branch")
		require.Error(t, err)
		require.Equal(t, 5, git.ExitCode(err))

		// A regexp that matches nothing exits with code 1
		_, err = run.Run(ctx, "config", "--local", "--get-regexp", `^arbor-branch\.`)
		require.Error(t, err)
		require.Equal(t, 1, git.ExitCode(err))
	})

	t.Run("exit code of a non-git error is minus one", func(t *testing.T) {
		require.Equal(t, -1, git.ExitCode(fmt.Errorf("not a git failure")))
	})
}
