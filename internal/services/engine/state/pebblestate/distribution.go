package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutDistribution(d state.Distribution) error {
	return s.distributions.Put(s.distributions.Key().Int64(d.Key), d)
}

func (s *State) GetDistribution(key int64) (state.Distribution, error) {
	return get(s.distributions, s.distributions.Key().Int64(key))
}

// DeleteDistribution removes the distribution and any pending entries left.
func (s *State) DeleteDistribution(key int64) error {
	if err := s.distributionPending.DeletePrefix(s.distributionPending.Key().Int64(key)); err != nil {
		return err
	}
	return s.distributions.Delete(s.distributions.Key().Int64(key))
}

func (s *State) AddPending(key int64, partitionID int) error {
	return mark(s.distributionPending, s.distributionPending.Key().Int64(key).Int64(int64(partitionID)))
}

func (s *State) RemovePending(key int64, partitionID int) error {
	return s.distributionPending.Delete(s.distributionPending.Key().Int64(key).Int64(int64(partitionID)))
}

// PendingPartitions returns the partitions yet to acknowledge, ascending.
func (s *State) PendingPartitions(key int64) ([]int, error) {
	var out []int
	err := s.distributionPending.ForEach(s.distributionPending.Key().Int64(key), func(raw []byte, _ struct{}) error {
		r := pebblestore.ReadKey(raw)
		_ = r.Int64()
		partition := r.Int64()
		if err := r.Err(); err != nil {
			return err
		}
		out = append(out, int(partition))
		return nil
	})
	return out, err
}

func (s *State) Enqueue(queueID string, key int64, partitionID int) error {
	return mark(s.distributionQueue, s.distributionQueue.Key().Text(queueID).Int64(int64(partitionID)).Int64(key))
}

func (s *State) Dequeue(queueID string, key int64, partitionID int) error {
	return s.distributionQueue.Delete(s.distributionQueue.Key().Text(queueID).Int64(int64(partitionID)).Int64(key))
}
