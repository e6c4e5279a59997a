package record

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
)

const (
	// DefaultVersion is the schema version of an intent that never needed a
	// second generation.
	DefaultVersion = 1
	// UnregisteredVersion is reported for intents without any applier.
	UnregisteredVersion = -1
	// NoKey marks events whose key is irrelevant to their applier.
	NoKey int64 = -1
)

// Event is one committed, immutable log record.
type Event struct {
	// Position is the record's position in its partition log, starting at 1.
	Position uint64
	// Key identifies the entity the event is about.
	Key     int64
	Intent  intent.Intent
	Version int
	// Value is the JSON encoded payload for Intent.
	Value json.RawMessage
	// Timestamp is the commit time in epoch milliseconds, stamped by the writer.
	Timestamp int64
}

// String renders the identity of the event for error messages.
func (e Event) String() string {
	return fmt.Sprintf("%s@v%d key=%d position=%d", e.Intent, e.Version, e.Key, e.Position)
}

// NewEvent encodes value and builds an event envelope. It is used by writers
// and tests; appliers only ever see decoded payloads.
func NewEvent(key int64, in intent.Intent, version int, value any) (Event, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", in, err)
	}
	return Event{Key: key, Intent: in, Version: version, Value: raw}, nil
}

// MustEvent is NewEvent for statically known payloads.
func MustEvent(key int64, in intent.Intent, version int, value any) Event {
	evt, err := NewEvent(key, in, version, value)
	if err != nil {
		panic(err)
	}
	return evt
}
