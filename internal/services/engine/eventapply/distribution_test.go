package eventapply

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func TestDistributionCompletesWhenEveryPartitionAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.apply(t, 70, intent.CommandDistributionStarted, 1, record.CommandDistributionValue{
		PartitionID: 1,
		ValueType:   intent.ValueTypeUser,
		Intent:      intent.UserCreate,
	})
	f.apply(t, 70, intent.CommandDistributionDistributing, 1, record.CommandDistributionValue{PartitionID: 2})
	f.apply(t, 70, intent.CommandDistributionEnqueued, 1, record.CommandDistributionValue{PartitionID: 3, QueueID: "identity"})

	pending, err := f.state.PendingPartitions(70)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, pending)

	f.apply(t, 70, intent.CommandDistributionAcknowledged, 1, record.CommandDistributionValue{PartitionID: 2})
	d, err := f.state.GetDistribution(70)
	require.NoError(t, err)
	require.Equal(t, state.DistributionPending, d.State)

	f.apply(t, 70, intent.CommandDistributionAcknowledged, 1, record.CommandDistributionValue{PartitionID: 3, QueueID: "identity"})
	d, err = f.state.GetDistribution(70)
	require.NoError(t, err)
	require.Equal(t, state.DistributionCompleted, d.State)

	f.apply(t, 70, intent.CommandDistributionFinished, 1, record.CommandDistributionValue{})
	_, err = f.state.GetDistribution(70)
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestClockAndUsageMetricAppliers(t *testing.T) {
	f := newFixture(t)
	f.apply(t, record.NoKey, intent.ClockPinned, 1, record.ClockValue{Time: 1700})
	clock, err := f.state.GetClock()
	require.NoError(t, err)
	require.Equal(t, state.Clock{Pinned: true, Time: 1700}, clock)

	f.apply(t, record.NoKey, intent.ClockResetted, 1, record.ClockValue{})
	clock, err = f.state.GetClock()
	require.NoError(t, err)
	require.False(t, clock.Pinned)

	require.NoError(t, f.state.PutUsageBucket(state.UsageBucket{StartTime: 1, Counters: map[string]int64{"x": 4}}))
	f.apply(t, record.NoKey, intent.UsageMetricExported, 1, record.UsageMetricValue{ResetTime: 9000})
	bucket, err := f.state.GetUsageBucket()
	require.NoError(t, err)
	require.Equal(t, state.UsageBucket{StartTime: 9000}, bucket)
}
