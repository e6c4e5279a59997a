package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutProcess(p state.Process) error {
	if err := s.processes.Put(s.processes.Key().Int64(p.Key), p); err != nil {
		return err
	}
	latestKey := s.processLatest.Key().Text(p.Value.BpmnProcessID)
	current, err := s.processLatest.Get(latestKey)
	if err != nil && !errors.Is(err, pebblestore.ErrNotFound) {
		return err
	}
	if err == nil && current != p.Key {
		prev, err := s.processes.Get(s.processes.Key().Int64(current))
		if err == nil && prev.Value.Version > p.Value.Version {
			return nil
		}
	}
	return s.processLatest.Put(latestKey, p.Key)
}

func (s *State) GetProcess(key int64) (state.Process, error) {
	return get(s.processes, s.processes.Key().Int64(key))
}

// DeleteProcess removes the definition. When it was the latest version the
// next highest remaining version becomes latest.
func (s *State) DeleteProcess(key int64) error {
	p, err := s.GetProcess(key)
	if err != nil {
		return err
	}
	if err := s.processes.Delete(s.processes.Key().Int64(key)); err != nil {
		return err
	}
	latestKey := s.processLatest.Key().Text(p.Value.BpmnProcessID)
	latest, err := s.processLatest.Get(latestKey)
	if err != nil || latest != key {
		return nil
	}
	var next state.Process
	found := false
	err = s.processes.ForEach(s.processes.Key(), func(_ []byte, other state.Process) error {
		if other.Value.BpmnProcessID != p.Value.BpmnProcessID {
			return nil
		}
		if !found || other.Value.Version > next.Value.Version {
			next, found = other, true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return s.processLatest.Delete(latestKey)
	}
	return s.processLatest.Put(latestKey, next.Key)
}

func (s *State) LatestProcessKey(bpmnProcessID string) (int64, error) {
	return get(s.processLatest, s.processLatest.Key().Text(bpmnProcessID))
}
