package config_test

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/config"
)

// initRepoStore creates a fresh git repository in a temp directory and
// returns a store backed by its local config.
func initRepoStore(t *testing.T) config.Store {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	return config.NewGitConfigStore(dir)
}

func TestGitConfigStore(t *testing.T) {
	t.Run("set and get round trip", func(t *testing.T) {
		store := initRepoStore(t)

		require.NoError(t, store.Set("arbor-branch.feature.parent", "main"))
		value, ok := store.Get("arbor-branch.feature.parent")
		require.True(t, ok)
		require.Equal(t, "main", value)
	})

	t.Run("get of a missing key", func(t *testing.T) {
		store := initRepoStore(t)

		_, ok := store.Get("arbor.main-branch")
		require.False(t, ok)
	})

	t.Run("set overwrites an existing value", func(t *testing.T) {
		store := initRepoStore(t)

		require.NoError(t, store.Set("arbor-branch.feature.parent", "main"))
		require.NoError(t, store.Set("arbor-branch.feature.parent", "payments"))
		value, ok := store.Get("arbor-branch.feature.parent")
		require.True(t, ok)
		require.Equal(t, "payments", value)
	})

	t.Run("multi-line value survives the round trip", func(t *testing.T) {
		store := initRepoStore(t)

		journal := "sync-branch main\nsync-branch feature\ncheckout feature"
		require.NoError(t, store.Set("arbor-runstate.remaining-steps", journal))
		value, ok := store.Get("arbor-runstate.remaining-steps")
		require.True(t, ok)
		require.Equal(t, journal, value)
	})

	t.Run("unset removes the key", func(t *testing.T) {
		store := initRepoStore(t)

		require.NoError(t, store.Set("arbor.main-branch", "main"))
		require.NoError(t, store.Unset("arbor.main-branch"))
		_, ok := store.Get("arbor.main-branch")
		require.False(t, ok)
	})

	t.Run("unset of a missing key is a no-op", func(t *testing.T) {
		store := initRepoStore(t)

		require.NoError(t, store.Set("arbor.main-branch", "main"))
		require.NoError(t, store.Unset("arbor-runstate.remaining-steps"))
		require.NoError(t, store.Unset("arbor-runstate.remaining-steps"))
	})

	t.Run("list matching returns only keys under the prefix", func(t *testing.T) {
		store := initRepoStore(t)

		require.NoError(t, store.Set("arbor-branch.feature.parent", "main"))
		require.NoError(t, store.Set("arbor-branch.payments.parent", "main"))
		require.NoError(t, store.Set("arbor.main-branch", "main"))

		entries, err := store.ListMatching("arbor-branch.")
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			"arbor-branch.feature.parent":  "main",
			"arbor-branch.payments.parent": "main",
		}, entries)
	})

	t.Run("list matching keeps multi-line values intact", func(t *testing.T) {
		store := initRepoStore(t)

		journal := "sync-branch main\ncheckout feature"
		require.NoError(t, store.Set("arbor-runstate.remaining-steps", journal))
		require.NoError(t, store.Set("arbor-runstate.options", `{"stashedChanges":true}`))

		entries, err := store.ListMatching("arbor-runstate.")
		require.NoError(t, err)
		require.Equal(t, journal, entries["arbor-runstate.remaining-steps"])
		require.Equal(t, `{"stashedChanges":true}`, entries["arbor-runstate.options"])
	})

	t.Run("list matching with no matches is empty", func(t *testing.T) {
		store := initRepoStore(t)

		entries, err := store.ListMatching("arbor-branch.")
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}
