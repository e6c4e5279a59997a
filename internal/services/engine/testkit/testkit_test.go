package testkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/replay"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func TestLogPagesAfterPosition(t *testing.T) {
	log := OrderLifecycle()
	page, err := log.ReadEvents(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, uint64(3), page[0].Position)

	rest, err := log.ReadEvents(context.Background(), 1, uint64(len(log)), 10)
	require.NoError(t, err)
	require.Empty(t, rest)
}

func TestScenarioACreatesOnlyTheJob(t *testing.T) {
	r := NewReplica(t)
	r.Apply(t, ScenarioA())

	job, err := r.State.GetJob(42)
	require.NoError(t, err)
	require.Equal(t, "payment", job.Value.Type)
	require.Equal(t, 3, job.Value.Retries)

	_, err = r.State.GetInstance(42)
	require.ErrorIs(t, err, state.ErrNotFound)
	AssertDeterministic(t, ScenarioA())
}

func TestScenarioBVersionsCoexist(t *testing.T) {
	r := NewReplica(t)
	r.Apply(t, ScenarioB())

	v1, err := r.State.GetInstance(700)
	require.NoError(t, err)
	require.Equal(t, int64(7), v1.UserTaskKey)
	v2, err := r.State.GetInstance(800)
	require.NoError(t, err)
	require.Zero(t, v2.UserTaskKey)
	AssertDeterministic(t, ScenarioB())
}

func TestScenarioCFailsWithoutMutation(t *testing.T) {
	r := NewReplica(t)
	before := NewReplica(t)
	before.Apply(t, ScenarioC()[:1])

	_, err := r.Replay(context.Background(), ScenarioC(), 0)
	require.ErrorIs(t, err, applier.ErrNoApplierForIntent)
	require.True(t, replay.IsNonRetryable(err))
	require.Equal(t, before.Dump(t), r.Dump(t))
}

func TestScenarioDReportsLatestVersion(t *testing.T) {
	r := NewReplica(t)
	before := NewReplica(t)
	before.Apply(t, ScenarioD()[:1])

	_, err := r.Replay(context.Background(), ScenarioD(), 0)
	var versionErr *applier.NoApplierForVersionError
	require.True(t, errors.As(err, &versionErr))
	require.Equal(t, 1, versionErr.LatestVersion)
	require.Equal(t, before.Dump(t), r.Dump(t))
}

func TestOrderLifecycleIsDeterministic(t *testing.T) {
	AssertDeterministic(t, OrderLifecycle())
}

func TestOrderLifecycleLeavesOnlyDurableRecords(t *testing.T) {
	r := NewReplica(t)
	r.Apply(t, OrderLifecycle())

	for _, key := range []int64{1, 2, 3} {
		_, err := r.State.GetInstance(key)
		require.ErrorIs(t, err, state.ErrNotFound, "element %d", key)
	}
	_, err := r.State.GetJob(42)
	require.ErrorIs(t, err, state.ErrNotFound)
	_, err = r.State.GetDistribution(70)
	require.ErrorIs(t, err, state.ErrNotFound)

	bucket, err := r.State.GetUsageBucket()
	require.NoError(t, err)
	require.Equal(t, int64(9000), bucket.StartTime)

	pos, err := r.State.LastAppliedPosition()
	require.NoError(t, err)
	require.Equal(t, uint64(len(OrderLifecycle())), pos)
}

func TestSnapshotAtEveryPositionMatchesFullReplay(t *testing.T) {
	log := OrderLifecycle()
	for at := uint64(1); at < uint64(len(log)); at++ {
		AssertSnapshotEquivalent(t, log, at)
	}
}
