package lineage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/config"
	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/lineage"
)

func newLineage(t *testing.T) (*lineage.Lineage, *config.MemoryStore) {
	t.Helper()
	store := config.NewMemoryStore()
	return lineage.New(store, config.NewOptions(store)), store
}

func TestSetParent(t *testing.T) {
	t.Run("records and reads back a parent", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.NoError(t, lin.SetParent("feature", "main"))
		require.Equal(t, "main", lin.ParentOf("feature"))
	})

	t.Run("empty parent deletes the record", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.NoError(t, lin.SetParent("feature", "main"))
		require.NoError(t, lin.SetParent("feature", ""))
		require.Equal(t, "", lin.ParentOf("feature"))
		require.False(t, lin.IsTracked("feature"))
	})

	t.Run("rejects a branch as its own parent", func(t *testing.T) {
		lin, _ := newLineage(t)

		err := lin.SetParent("feature", "feature")
		require.ErrorIs(t, err, arborerrors.ErrAncestryCycle)
	})

	t.Run("rejects assignments that would create a cycle", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.NoError(t, lin.SetParent("b", "a"))
		require.NoError(t, lin.SetParent("c", "b"))

		err := lin.SetParent("a", "c")
		require.ErrorIs(t, err, arborerrors.ErrAncestryCycle)

		// Original links are untouched
		require.Equal(t, "a", lin.ParentOf("b"))
		require.Equal(t, "b", lin.ParentOf("c"))
	})
}

func TestAncestorsOf(t *testing.T) {
	t.Run("walks the chain up to and including main", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.NoError(t, lin.SetParent("feature", "main"))
		require.NoError(t, lin.SetParent("child", "feature"))

		require.Equal(t, []string{"main", "feature"}, lin.AncestorsOf("child"))
	})

	t.Run("main branch has no ancestors", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.Empty(t, lin.AncestorsOf("main"))
	})

	t.Run("branch with unknown parent has no ancestors", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.Empty(t, lin.AncestorsOf("orphan"))
	})

	t.Run("caches the computed chain", func(t *testing.T) {
		lin, store := newLineage(t)

		require.NoError(t, lin.SetParent("feature", "main"))
		lin.AncestorsOf("feature")

		cached, ok := store.Get("arbor-branch.feature.ancestors")
		require.True(t, ok)
		require.Equal(t, "main", cached)
	})

	t.Run("reparenting invalidates descendant caches", func(t *testing.T) {
		lin, store := newLineage(t)

		require.NoError(t, lin.SetParent("feature", "main"))
		require.NoError(t, lin.SetParent("child", "feature"))
		require.Equal(t, []string{"main", "feature"}, lin.AncestorsOf("child"))

		// Repointing feature must drop the cached chain of child too
		require.NoError(t, lin.SetParent("other", "main"))
		require.NoError(t, lin.SetParent("feature", "other"))

		_, ok := store.Get("arbor-branch.child.ancestors")
		require.False(t, ok)
		require.Equal(t, []string{"main", "other", "feature"}, lin.AncestorsOf("child"))
	})

	t.Run("recompile matches the cache after every mutation", func(t *testing.T) {
		lin, _ := newLineage(t)

		require.NoError(t, lin.SetParent("a", "main"))
		require.NoError(t, lin.SetParent("b", "a"))
		require.NoError(t, lin.SetParent("c", "b"))

		for _, branch := range []string{"a", "b", "c"} {
			require.Equal(t, lin.RecompileAncestors(branch), lin.AncestorsOf(branch))
		}
	})
}

func TestHasAncestor(t *testing.T) {
	lin, _ := newLineage(t)

	require.NoError(t, lin.SetParent("a", "main"))
	require.NoError(t, lin.SetParent("b", "a"))

	require.True(t, lin.HasAncestor("b", "a"))
	require.True(t, lin.HasAncestor("b", "main"))
	require.False(t, lin.HasAncestor("a", "b"))
	require.False(t, lin.HasAncestor("main", "a"))
}

func TestChildrenOf(t *testing.T) {
	lin, _ := newLineage(t)

	require.NoError(t, lin.SetParent("beta", "main"))
	require.NoError(t, lin.SetParent("alpha", "main"))
	require.NoError(t, lin.SetParent("grandchild", "alpha"))

	require.Equal(t, []string{"alpha", "beta"}, lin.ChildrenOf("main"))
	require.Equal(t, []string{"grandchild"}, lin.ChildrenOf("alpha"))
	require.Empty(t, lin.ChildrenOf("beta"))
}

func TestAllTrackedBranches(t *testing.T) {
	lin, _ := newLineage(t)

	require.NoError(t, lin.SetParent("b", "main"))
	require.NoError(t, lin.SetParent("a", "main"))

	require.Equal(t, []string{"a", "b"}, lin.AllTrackedBranches())
}

func TestUpdateChildPointers(t *testing.T) {
	lin, _ := newLineage(t)

	require.NoError(t, lin.SetParent("feature", "main"))
	require.NoError(t, lin.SetParent("child1", "feature"))
	require.NoError(t, lin.SetParent("child2", "feature"))

	require.NoError(t, lin.UpdateChildPointers("feature", "main"))

	require.Equal(t, "main", lin.ParentOf("child1"))
	require.Equal(t, "main", lin.ParentOf("child2"))
	require.Equal(t, []string{"main"}, lin.AncestorsOf("child1"))
}
