package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// PutTimer stores the timer with its due date and element instance indices.
// Re-putting a timer moves its due date entry.
func (s *State) PutTimer(t state.Timer) error {
	if prev, err := s.GetTimer(t.Key); err == nil {
		if err := s.unindexTimer(prev); err != nil {
			return err
		}
	} else if !errors.Is(err, state.ErrNotFound) {
		return err
	}
	if err := s.timers.Put(s.timers.Key().Int64(t.Key), t); err != nil {
		return err
	}
	if err := mark(s.timerDue, s.timerDue.Key().Int64(t.Value.DueDate).Int64(t.Key)); err != nil {
		return err
	}
	return mark(s.timerByElement, s.timerByElement.Key().Int64(t.Value.ElementInstanceKey).Int64(t.Key))
}

func (s *State) GetTimer(key int64) (state.Timer, error) {
	return get(s.timers, s.timers.Key().Int64(key))
}

func (s *State) DeleteTimer(key int64) error {
	t, err := s.GetTimer(key)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.unindexTimer(t); err != nil {
		return err
	}
	return s.timers.Delete(s.timers.Key().Int64(key))
}

func (s *State) TimersForElement(elementInstanceKey int64) ([]int64, error) {
	var out []int64
	err := s.timerByElement.ForEach(s.timerByElement.Key().Int64(elementInstanceKey), func(key []byte, _ struct{}) error {
		r := pebblestore.ReadKey(key)
		_ = r.Int64()
		timerKey := r.Int64()
		if err := r.Err(); err != nil {
			return err
		}
		out = append(out, timerKey)
		return nil
	})
	return out, err
}

func (s *State) unindexTimer(t state.Timer) error {
	if err := s.timerDue.Delete(s.timerDue.Key().Int64(t.Value.DueDate).Int64(t.Key)); err != nil {
		return err
	}
	return s.timerByElement.Delete(s.timerByElement.Key().Int64(t.Value.ElementInstanceKey).Int64(t.Key))
}
