// Package testkit replays event sequences into fresh in-memory partitions and
// asserts that the resulting state is byte-for-byte reproducible.
//
// A Replica is one partition: an in-memory Pebble store, the state bound to it
// and the registry built over that state. Events always go through the replay
// driver so every event commits state and position together.
package testkit

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/eventapply"
	"github.com/louisbranch/waypoint/internal/services/engine/replay"
	"github.com/louisbranch/waypoint/internal/services/engine/state/pebblestate"
)

// Epoch is the timestamp, in epoch milliseconds, of the first event built by
// Sequence.
const Epoch int64 = 1704067200000

// Log serves a fixed, position-ordered event sequence.
type Log []record.Event

// ReadEvents implements replay.Log.
func (l Log) ReadEvents(_ context.Context, _ int, afterPosition uint64, limit int) ([]record.Event, error) {
	start := sort.Search(len(l), func(i int) bool { return l[i].Position > afterPosition })
	end := len(l)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return l[start:end], nil
}

// Sequence assigns positions 1..n and deterministic timestamps.
func Sequence(events ...record.Event) Log {
	out := make(Log, len(events))
	for i, evt := range events {
		evt.Position = uint64(i + 1)
		evt.Timestamp = Epoch + int64(i)
		out[i] = evt
	}
	return out
}

// Replica is one in-memory partition.
type Replica struct {
	DB       *pebblestore.DB
	State    *pebblestate.State
	Registry *applier.Registry
}

// NewReplica opens a fresh partition that is closed when t ends.
func NewReplica(t testing.TB) *Replica {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{InMemory: true, Fsync: pebblestore.FsyncModeNever})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := pebblestate.New(db)
	registry, err := eventapply.Build(s)
	require.NoError(t, err)
	return &Replica{DB: db, State: s, Registry: registry}
}

// Replay runs the replay driver over log up to until (zero for all).
func (r *Replica) Replay(ctx context.Context, log Log, until uint64) (replay.Result, error) {
	return replay.Replay(ctx, replay.Partition{
		ID:      1,
		Log:     log,
		Applier: r.Registry,
		Target:  r.State,
	}, replay.Options{UntilPosition: until, PageSize: 3})
}

// Apply replays every event of log and fails t on error.
func (r *Replica) Apply(t testing.TB, log Log) {
	t.Helper()
	_, err := r.Replay(context.Background(), log, 0)
	require.NoError(t, err)
}

// Dump returns every committed key/value in key order.
func (r *Replica) Dump(t testing.TB) []pebblestore.KV {
	t.Helper()
	entries, err := r.State.Dump()
	require.NoError(t, err)
	return entries
}

// Restore copies a dump into the replica's store.
func (r *Replica) Restore(t testing.TB, entries []pebblestore.KV) {
	t.Helper()
	require.NoError(t, r.DB.Load(entries))
}

// AssertDeterministic replays log into two fresh replicas and requires equal
// state.
func AssertDeterministic(t testing.TB, log Log) []pebblestore.KV {
	t.Helper()
	first := NewReplica(t)
	first.Apply(t, log)
	second := NewReplica(t)
	second.Apply(t, log)

	want := first.Dump(t)
	require.NotEmpty(t, want)
	require.Equal(t, want, second.Dump(t))
	return want
}

// AssertSnapshotEquivalent replays log up to at, copies the state into a fresh
// replica, replays the rest there and requires the result to equal a full
// replay.
func AssertSnapshotEquivalent(t testing.TB, log Log, at uint64) {
	t.Helper()
	full := NewReplica(t)
	full.Apply(t, log)

	prefix := NewReplica(t)
	result, err := prefix.Replay(context.Background(), log, at)
	require.NoError(t, err)
	require.Equal(t, at, result.LastPosition)

	resumed := NewReplica(t)
	resumed.Restore(t, prefix.Dump(t))
	pos, err := resumed.State.LastAppliedPosition()
	require.NoError(t, err)
	require.Equal(t, at, pos)
	resumed.Apply(t, log)

	require.Equal(t, full.Dump(t), resumed.Dump(t))
}
