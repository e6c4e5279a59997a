package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

const singletonKey = "singleton"

func (s *State) PinClock(time int64) error {
	return s.clock.Put(s.clock.Key().Text(singletonKey), state.Clock{Pinned: true, Time: time})
}

func (s *State) ResetClock() error {
	return s.clock.Delete(s.clock.Key().Text(singletonKey))
}

// GetClock returns the unpinned clock when none was ever pinned.
func (s *State) GetClock() (state.Clock, error) {
	c, err := s.clock.Get(s.clock.Key().Text(singletonKey))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return state.Clock{}, nil
	}
	return c, err
}

// GetUsageBucket returns an empty bucket when none was stored yet.
func (s *State) GetUsageBucket() (state.UsageBucket, error) {
	b, err := s.usage.Get(s.usage.Key().Text(singletonKey))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return state.UsageBucket{}, nil
	}
	return b, err
}

func (s *State) PutUsageBucket(b state.UsageBucket) error {
	return s.usage.Put(s.usage.Key().Text(singletonKey), b)
}
