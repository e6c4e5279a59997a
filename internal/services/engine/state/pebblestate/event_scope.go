package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutEventScope(scope state.EventScope) error {
	return s.eventScopes.Put(s.eventScopes.Key().Int64(scope.Key), scope)
}

func (s *State) GetEventScope(key int64) (state.EventScope, error) {
	return get(s.eventScopes, s.eventScopes.Key().Int64(key))
}

func (s *State) DeleteEventScope(key int64) error {
	if err := s.eventTriggers.DeletePrefix(s.eventTriggers.Key().Int64(key)); err != nil {
		return err
	}
	return s.eventScopes.Delete(s.eventScopes.Key().Int64(key))
}

func (s *State) AddTrigger(t state.EventTrigger) error {
	return s.eventTriggers.Put(s.eventTriggers.Key().Int64(t.ScopeKey).Int64(t.Key), t)
}

func (s *State) DeleteTrigger(scopeKey, eventKey int64) error {
	return s.eventTriggers.Delete(s.eventTriggers.Key().Int64(scopeKey).Int64(eventKey))
}

// Triggers returns the scope's queued triggers in event key order.
func (s *State) Triggers(scopeKey int64) ([]state.EventTrigger, error) {
	var out []state.EventTrigger
	err := s.eventTriggers.ForEach(s.eventTriggers.Key().Int64(scopeKey), func(_ []byte, t state.EventTrigger) error {
		out = append(out, t)
		return nil
	})
	return out, err
}
