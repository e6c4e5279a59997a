package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerDistribution(b *applier.Builder) {
	register(b, intent.CommandDistributionStarted, 1, a.applyDistributionStarted)
	register(b, intent.CommandDistributionDistributing, 1, a.applyDistributionDistributing)
	register(b, intent.CommandDistributionEnqueued, 1, a.applyDistributionEnqueued)
	register(b, intent.CommandDistributionAcknowledged, 1, a.applyDistributionAcknowledged)
	register(b, intent.CommandDistributionFinished, 1, a.applyDistributionFinished)
}

func (a Appliers) applyDistributionStarted(key int64, v record.CommandDistributionValue) error {
	return a.Distribution.PutDistribution(state.Distribution{Key: key, State: state.DistributionPending, Value: v})
}

func (a Appliers) applyDistributionDistributing(key int64, v record.CommandDistributionValue) error {
	return a.Distribution.AddPending(key, v.PartitionID)
}

func (a Appliers) applyDistributionEnqueued(key int64, v record.CommandDistributionValue) error {
	if err := a.Distribution.AddPending(key, v.PartitionID); err != nil {
		return err
	}
	return a.Distribution.Enqueue(v.QueueID, key, v.PartitionID)
}

// applyDistributionAcknowledged removes the partition's pending entry and
// completes the distribution once no partition is left.
func (a Appliers) applyDistributionAcknowledged(key int64, v record.CommandDistributionValue) error {
	if err := a.Distribution.RemovePending(key, v.PartitionID); err != nil {
		return err
	}
	if v.QueueID != "" {
		if err := a.Distribution.Dequeue(v.QueueID, key, v.PartitionID); err != nil {
			return err
		}
	}
	pending, err := a.Distribution.PendingPartitions(key)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return nil
	}
	d, err := a.Distribution.GetDistribution(key)
	if err != nil {
		return err
	}
	d.State = state.DistributionCompleted
	return a.Distribution.PutDistribution(d)
}

func (a Appliers) applyDistributionFinished(key int64, _ record.CommandDistributionValue) error {
	return a.Distribution.DeleteDistribution(key)
}
