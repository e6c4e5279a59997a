package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) GetInstance(key int64) (state.ElementInstance, error) {
	return get(s.instances, s.instances.Key().Int64(key))
}

func (s *State) PutInstance(e state.ElementInstance) error {
	if err := s.instances.Put(s.instances.Key().Int64(e.Key), e); err != nil {
		return err
	}
	if e.ParentKey > 0 {
		return mark(s.children, s.children.Key().Int64(e.ParentKey).Int64(e.Key))
	}
	return nil
}

// DeleteInstance removes the instance and its entry in the parent's child
// index. Children of the deleted instance are left to their own events.
func (s *State) DeleteInstance(key int64) error {
	e, err := s.GetInstance(key)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if e.ParentKey > 0 {
		if err := s.children.Delete(s.children.Key().Int64(e.ParentKey).Int64(key)); err != nil {
			return err
		}
	}
	return s.instances.Delete(s.instances.Key().Int64(key))
}

func (s *State) Children(parentKey int64) ([]int64, error) {
	var out []int64
	err := s.children.ForEach(s.children.Key().Int64(parentKey), func(key []byte, _ struct{}) error {
		r := pebblestore.ReadKey(key)
		_ = r.Int64()
		child := r.Int64()
		if err := r.Err(); err != nil {
			return err
		}
		out = append(out, child)
		return nil
	})
	return out, err
}

func (s *State) AddTakenSequenceFlow(flowScopeKey int64, gatewayID, flowID string) error {
	return mark(s.takenFlows, s.takenFlows.Key().Int64(flowScopeKey).Text(gatewayID).Text(flowID))
}

func (s *State) TakenSequenceFlows(flowScopeKey int64, gatewayID string) ([]string, error) {
	var out []string
	err := s.takenFlows.ForEach(s.takenFlows.Key().Int64(flowScopeKey).Text(gatewayID), func(key []byte, _ struct{}) error {
		r := pebblestore.ReadKey(key)
		_ = r.Int64()
		_ = r.Text()
		flow := r.Text()
		if err := r.Err(); err != nil {
			return err
		}
		out = append(out, flow)
		return nil
	})
	return out, err
}

func (s *State) ClearTakenSequenceFlows(flowScopeKey int64, gatewayID string) error {
	return s.takenFlows.DeletePrefix(s.takenFlows.Key().Int64(flowScopeKey).Text(gatewayID))
}
