package workflows_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/config"
	arborerrors "arbor.dev/arbor/internal/errors"
	"arbor.dev/arbor/internal/lineage"
	"arbor.dev/arbor/internal/steps"
	"arbor.dev/arbor/internal/workflows"
	"arbor.dev/arbor/testhelpers"
)

func newPlanner(t *testing.T, fake *testhelpers.FakeRunner) *workflows.Planner {
	t.Helper()
	store := config.NewMemoryStore()
	options := config.NewOptions(store)
	return &workflows.Planner{
		Git:     fake,
		Options: options,
		Lineage: lineage.New(store, options),
	}
}

func planText(t *testing.T, plan []steps.Step) []string {
	t.Helper()
	lines := make([]string, len(plan))
	for i, step := range plan {
		lines[i] = steps.Serialize(step)
	}
	return lines
}

func TestHackPlan(t *testing.T) {
	t.Run("without a remote plans sync and create only", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main")
		planner := newPlanner(t, fake)

		plan, err := planner.Hack(context.Background(), "payments")
		require.NoError(t, err)
		require.Equal(t, []string{
			"sync-branch main",
			"create-and-checkout payments main",
		}, planText(t, plan))
	})

	t.Run("with a remote and push-new-branches adds a tracking branch", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main").WithRemote("git@github.com:acme/shop.git")
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Options.SetPushNewBranches(true))

		plan, err := planner.Hack(context.Background(), "payments")
		require.NoError(t, err)
		require.Equal(t, []string{
			"sync-branch main",
			"create-and-checkout payments main",
			"create-tracking-branch payments",
		}, planText(t, plan))
	})

	t.Run("with a remote but push-new-branches off plans no tracking branch", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main").WithRemote("git@github.com:acme/shop.git")
		planner := newPlanner(t, fake)

		plan, err := planner.Hack(context.Background(), "payments")
		require.NoError(t, err)
		require.Len(t, plan, 2)
	})

	t.Run("rejects existing branch names", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "payments")
		planner := newPlanner(t, fake)

		_, err := planner.Hack(context.Background(), "payments")
		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		planner := newPlanner(t, testhelpers.NewFakeRunner("main"))
		_, err := planner.Hack(context.Background(), "")
		require.Error(t, err)
	})
}

func TestAppendPlan(t *testing.T) {
	t.Run("syncs the chain and cuts off the current branch", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature")
		fake.Current = "feature"
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Lineage.SetParent("feature", "main"))

		plan, err := planner.Append(context.Background(), "child")
		require.NoError(t, err)
		require.Equal(t, []string{
			"sync-branch main",
			"sync-branch feature",
			"create-and-checkout child feature",
		}, planText(t, plan))
	})
}

func TestSyncPlan(t *testing.T) {
	t.Run("syncs ancestors root-first and returns to the start", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature", "child")
		fake.Current = "child"
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Lineage.SetParent("feature", "main"))
		require.NoError(t, planner.Lineage.SetParent("child", "feature"))

		plan, err := planner.Sync(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{
			"sync-branch main",
			"sync-branch feature",
			"sync-branch child",
			"checkout child",
		}, planText(t, plan))
	})

	t.Run("main branch syncs only itself", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main")
		planner := newPlanner(t, fake)

		plan, err := planner.Sync(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{
			"sync-branch main",
			"checkout main",
		}, planText(t, plan))
	})
}

func TestProposePlan(t *testing.T) {
	t.Run("plans sync chain, tracking branch and review request", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature").WithRemote("git@github.com:acme/shop.git")
		delete(fake.RemoteBranches, "feature")
		fake.Current = "feature"
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Lineage.SetParent("feature", "main"))

		plan, err := planner.Propose(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{
			"sync-branch main",
			"sync-branch feature",
			"create-tracking-branch feature",
			"create-review-request acme/shop feature main",
		}, planText(t, plan))
	})

	t.Run("skips the tracking branch when one exists", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature").WithRemote("git@github.com:acme/shop.git")
		fake.Current = "feature"
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Lineage.SetParent("feature", "main"))

		plan, err := planner.Propose(context.Background())
		require.NoError(t, err)
		require.NotContains(t, planText(t, plan), "create-tracking-branch feature")
	})

	t.Run("rejects runs without a remote", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature")
		fake.Current = "feature"
		planner := newPlanner(t, fake)

		_, err := planner.Propose(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "without a remote")
	})

	t.Run("rejects the main branch", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main").WithRemote("git@github.com:acme/shop.git")
		planner := newPlanner(t, fake)

		_, err := planner.Propose(context.Background())
		require.Error(t, err)
	})
}

func TestKillPlan(t *testing.T) {
	t.Run("repoints children, deletes tracking and local branch", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature", "child").WithRemote("git@github.com:acme/shop.git")
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Lineage.SetParent("feature", "main"))
		require.NoError(t, planner.Lineage.SetParent("child", "feature"))

		plan, err := planner.Kill(context.Background(), "feature")
		require.NoError(t, err)
		require.Equal(t, []string{
			"set-parent child main",
			"delete-tracking-branch feature",
			"delete-local-branch feature",
		}, planText(t, plan))
	})

	t.Run("checks out the parent when killing the current branch", func(t *testing.T) {
		fake := testhelpers.NewFakeRunner("main", "feature")
		fake.Current = "feature"
		planner := newPlanner(t, fake)
		require.NoError(t, planner.Lineage.SetParent("feature", "main"))

		plan, err := planner.Kill(context.Background(), "feature")
		require.NoError(t, err)
		require.Equal(t, []string{
			"checkout main",
			"delete-local-branch feature",
		}, planText(t, plan))
	})

	t.Run("refuses to kill the main branch", func(t *testing.T) {
		planner := newPlanner(t, testhelpers.NewFakeRunner("main"))
		_, err := planner.Kill(context.Background(), "main")
		require.Error(t, err)
	})

	t.Run("fails for unknown branches", func(t *testing.T) {
		planner := newPlanner(t, testhelpers.NewFakeRunner("main"))
		_, err := planner.Kill(context.Background(), "ghost")
		require.ErrorIs(t, err, arborerrors.ErrBranchNotFound)
	})
}
