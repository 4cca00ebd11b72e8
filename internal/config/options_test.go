package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/config"
)

func TestOptions(t *testing.T) {
	t.Run("main branch defaults to main", func(t *testing.T) {
		options := config.NewOptions(config.NewMemoryStore())
		require.Equal(t, "main", options.MainBranch())
	})

	t.Run("main branch is configurable", func(t *testing.T) {
		options := config.NewOptions(config.NewMemoryStore())
		require.NoError(t, options.SetMainBranch("trunk"))
		require.Equal(t, "trunk", options.MainBranch())
	})

	t.Run("perennial branches round-trip as a set", func(t *testing.T) {
		options := config.NewOptions(config.NewMemoryStore())
		require.Empty(t, options.PerennialBranches())

		require.NoError(t, options.SetPerennialBranches([]string{"staging", "production"}))
		require.Equal(t, []string{"staging", "production"}, options.PerennialBranches())
		require.True(t, options.IsPerennial("staging"))
		require.False(t, options.IsPerennial("feature"))

		require.NoError(t, options.SetPerennialBranches(nil))
		require.Empty(t, options.PerennialBranches())
	})

	t.Run("main and perennials are both protected", func(t *testing.T) {
		options := config.NewOptions(config.NewMemoryStore())
		require.NoError(t, options.SetPerennialBranches([]string{"production"}))

		require.True(t, options.IsMainOrPerennial("main"))
		require.True(t, options.IsMainOrPerennial("production"))
		require.False(t, options.IsMainOrPerennial("feature"))
	})

	t.Run("push-new-branches defaults to off", func(t *testing.T) {
		options := config.NewOptions(config.NewMemoryStore())
		require.False(t, options.ShouldPushNewBranches())

		require.NoError(t, options.SetPushNewBranches(true))
		require.True(t, options.ShouldPushNewBranches())

		require.NoError(t, options.SetPushNewBranches(false))
		require.False(t, options.ShouldPushNewBranches())
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("get, set and unset", func(t *testing.T) {
		store := config.NewMemoryStore()

		_, ok := store.Get("arbor.main-branch")
		require.False(t, ok)

		require.NoError(t, store.Set("arbor.main-branch", "main"))
		value, ok := store.Get("arbor.main-branch")
		require.True(t, ok)
		require.Equal(t, "main", value)

		require.NoError(t, store.Unset("arbor.main-branch"))
		_, ok = store.Get("arbor.main-branch")
		require.False(t, ok)

		// Unsetting a missing key is a no-op
		require.NoError(t, store.Unset("arbor.main-branch"))
	})

	t.Run("lists entries matching a prefix", func(t *testing.T) {
		store := config.NewMemoryStore()
		require.NoError(t, store.Set("arbor-branch.feature.parent", "main"))
		require.NoError(t, store.Set("arbor-branch.child.parent", "feature"))
		require.NoError(t, store.Set("arbor.main-branch", "main"))

		entries, err := store.ListMatching("arbor-branch.")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "main", entries["arbor-branch.feature.parent"])
	})

	t.Run("preserves multi-line values", func(t *testing.T) {
		store := config.NewMemoryStore()
		journal := "sync-branch main\ncreate-and-checkout payments main"
		require.NoError(t, store.Set("arbor-runstate.remaining-steps", journal))

		value, ok := store.Get("arbor-runstate.remaining-steps")
		require.True(t, ok)
		require.Equal(t, journal, value)
	})
}
