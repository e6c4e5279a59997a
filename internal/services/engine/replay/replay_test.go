package replay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/waypoint/internal/platform/errors"
	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/eventapply"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
	"github.com/louisbranch/waypoint/internal/services/engine/state/pebblestate"
)

type fakeLog struct {
	mu     sync.Mutex
	events []record.Event
	err    error
	reads  int
}

func (l *fakeLog) ReadEvents(_ context.Context, _ int, after uint64, limit int) ([]record.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	if l.err != nil {
		return nil, l.err
	}
	var out []record.Event
	for _, evt := range l.events {
		if evt.Position > after && len(out) < limit {
			out = append(out, evt)
		}
	}
	return out, nil
}

func (l *fakeLog) append(events ...record.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

type fakeTarget struct {
	committed uint64
	staged    uint64
	commits   int
	rollbacks int
}

func (t *fakeTarget) LastAppliedPosition() (uint64, error) { return t.committed, nil }

func (t *fakeTarget) SetLastAppliedPosition(position uint64) error {
	t.staged = position
	return nil
}

func (t *fakeTarget) Commit() error {
	t.committed = t.staged
	t.commits++
	return nil
}

func (t *fakeTarget) Rollback() error {
	t.staged = t.committed
	t.rollbacks++
	return nil
}

type recordingApplier struct {
	applied []uint64
	failAt  uint64
	err     error
}

func (a *recordingApplier) Apply(evt record.Event) error {
	if evt.Position == a.failAt {
		return a.err
	}
	a.applied = append(a.applied, evt.Position)
	return nil
}

func events(positions ...uint64) []record.Event {
	out := make([]record.Event, 0, len(positions))
	for _, pos := range positions {
		out = append(out, record.Event{Position: pos, Key: int64(pos), Intent: intent.JobCreated, Version: 1, Value: []byte(`{}`)})
	}
	return out
}

func TestReplayRequiresPartitionParts(t *testing.T) {
	tests := []struct {
		name string
		p    Partition
		want error
	}{
		{name: "log", p: Partition{Applier: &recordingApplier{}, Target: &fakeTarget{}}, want: ErrLogRequired},
		{name: "applier", p: Partition{Log: &fakeLog{}, Target: &fakeTarget{}}, want: ErrApplierRequired},
		{name: "target", p: Partition{Log: &fakeLog{}, Applier: &recordingApplier{}}, want: ErrTargetRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Replay(context.Background(), tc.p, Options{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Replay() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestReplayAppliesInOrderAndCommitsEachEvent(t *testing.T) {
	log := &fakeLog{events: events(1, 2, 3, 4, 5)}
	target := &fakeTarget{}
	app := &recordingApplier{}

	result, err := Replay(context.Background(), Partition{ID: 1, Log: log, Applier: app, Target: target}, Options{PageSize: 2})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if result.Applied != 5 || result.LastPosition != 5 {
		t.Fatalf("Replay() = %+v, want 5 applied up to 5", result)
	}
	if target.commits != 5 {
		t.Fatalf("commits = %d, want 5", target.commits)
	}
	for i, pos := range app.applied {
		if pos != uint64(i+1) {
			t.Fatalf("applied[%d] = %d, want %d", i, pos, i+1)
		}
	}
}

func TestReplayResumesAfterCommittedPosition(t *testing.T) {
	log := &fakeLog{events: events(1, 2, 3)}
	target := &fakeTarget{committed: 2}
	app := &recordingApplier{}

	result, err := Replay(context.Background(), Partition{Log: log, Applier: app, Target: target}, Options{})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if result.Applied != 1 || len(app.applied) != 1 || app.applied[0] != 3 {
		t.Fatalf("applied = %v, want [3]", app.applied)
	}
}

func TestReplayStopsAtUntilPosition(t *testing.T) {
	log := &fakeLog{events: events(1, 2, 3, 4)}
	target := &fakeTarget{}
	app := &recordingApplier{}

	result, err := Replay(context.Background(), Partition{Log: log, Applier: app, Target: target}, Options{UntilPosition: 2})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if result.LastPosition != 2 || target.committed != 2 {
		t.Fatalf("last position = %d committed = %d, want 2", result.LastPosition, target.committed)
	}
}

func TestReplayFailsOnPositionGap(t *testing.T) {
	log := &fakeLog{events: events(1, 3)}
	target := &fakeTarget{}
	app := &recordingApplier{}

	_, err := Replay(context.Background(), Partition{ID: 2, Log: log, Applier: app, Target: target}, Options{})
	if !errors.Is(err, ErrPositionGap) {
		t.Fatalf("Replay() error = %v, want position gap", err)
	}
	var failure *PartitionFailure
	if !errors.As(err, &failure) {
		t.Fatalf("Replay() error = %T, want *PartitionFailure", err)
	}
	if failure.PartitionID != 2 || failure.Position != 3 {
		t.Fatalf("failure = %+v, want partition 2 position 3", failure)
	}
	if !IsNonRetryable(err) {
		t.Fatal("expected partition failure to be non-retryable")
	}
	if target.committed != 1 {
		t.Fatalf("committed = %d, want 1", target.committed)
	}
}

func TestReplayRollsBackFailedEvent(t *testing.T) {
	boom := errors.New("boom")
	log := &fakeLog{events: events(1, 2, 3)}
	target := &fakeTarget{}
	app := &recordingApplier{failAt: 2, err: boom}

	result, err := Replay(context.Background(), Partition{Log: log, Applier: app, Target: target}, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("Replay() error = %v, want boom", err)
	}
	var failure *PartitionFailure
	if !errors.As(err, &failure) || failure.Position != 2 || failure.Intent != intent.JobCreated {
		t.Fatalf("failure = %+v, want position 2 job.created", failure)
	}
	if target.rollbacks != 1 || target.committed != 1 || result.LastPosition != 1 {
		t.Fatalf("rollbacks = %d committed = %d last = %d", target.rollbacks, target.committed, result.LastPosition)
	}
	if len(app.applied) != 1 {
		t.Fatalf("applied = %v, want only the first event", app.applied)
	}
}

func TestReplayWrapsLogErrors(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := Replay(context.Background(), Partition{Log: &fakeLog{err: boom}, Applier: &recordingApplier{}, Target: &fakeTarget{}}, Options{})
	if !errors.Is(err, boom) || !IsNonRetryable(err) {
		t.Fatalf("Replay() error = %v, want non-retryable disk gone", err)
	}
}

func TestReplayHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Replay(ctx, Partition{Log: &fakeLog{events: events(1)}, Applier: &recordingApplier{}, Target: &fakeTarget{}}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Replay() error = %v, want canceled", err)
	}
	if IsNonRetryable(err) {
		t.Fatal("cancellation must not be a partition failure")
	}
}

func TestFollowPicksUpAppendedEvents(t *testing.T) {
	log := &fakeLog{events: events(1, 2)}
	target := &fakeTarget{}
	app := &recordingApplier{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var progress []uint64
	result, err := Follow(ctx, Partition{Log: log, Applier: app, Target: target}, FollowOptions{
		PollInterval: time.Millisecond,
		Progress: func(r Result) {
			progress = append(progress, r.LastPosition)
			switch r.LastPosition {
			case 2:
				log.append(events(3, 4)...)
			case 4:
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	if result.LastPosition != 4 || result.Applied != 4 {
		t.Fatalf("Follow() = %+v, want 4 applied up to 4", result)
	}
	if len(progress) != 2 {
		t.Fatalf("progress = %v, want two passes", progress)
	}
}

func TestFollowReturnsPartitionFailure(t *testing.T) {
	log := &fakeLog{events: events(2)}
	_, err := Follow(context.Background(), Partition{Log: log, Applier: &recordingApplier{}, Target: &fakeTarget{}}, FollowOptions{PollInterval: time.Millisecond})
	if !errors.Is(err, ErrPositionGap) {
		t.Fatalf("Follow() error = %v, want position gap", err)
	}
}

func TestReplayThroughRegistryRollsBackUnknownVersion(t *testing.T) {
	db, err := pebblestore.Open(pebblestore.Options{InMemory: true, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s := pebblestate.New(db)
	registry, err := eventapply.Build(s)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	first := record.MustEvent(42, intent.JobCreated, 1, record.JobValue{Type: "payment"})
	first.Position = 1
	second := record.MustEvent(43, intent.JobCreated, 9, record.JobValue{Type: "payment"})
	second.Position = 2
	log := &fakeLog{events: []record.Event{first, second}}

	_, err = Replay(context.Background(), Partition{Log: log, Applier: registry, Target: s}, Options{})
	if !errors.Is(err, applier.ErrNoApplierForVersion) {
		t.Fatalf("Replay() error = %v, want no applier for version", err)
	}
	pos, err := s.LastAppliedPosition()
	if err != nil || pos != 1 {
		t.Fatalf("LastAppliedPosition() = %d, %v; want 1", pos, err)
	}
	if _, err := s.GetJob(42); err != nil {
		t.Fatalf("GetJob(42) error = %v", err)
	}
	if _, err := s.GetJob(43); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("GetJob(43) error = %v, want not found", err)
	}
}

func TestPartitionFailureCodes(t *testing.T) {
	tests := []struct {
		err  error
		want apperrors.Code
	}{
		{err: &applier.NoApplierForVersionError{Intent: intent.JobCreated, Version: 3, LatestVersion: 1}, want: apperrors.CodeNoApplierForVersion},
		{err: applier.ErrNoApplierForIntent, want: apperrors.CodeNoApplierForIntent},
		{err: ErrPositionGap, want: apperrors.CodeEventPositionGap},
		{err: errors.New("disk"), want: apperrors.CodePartitionFailed},
	}
	for _, tc := range tests {
		failure := &PartitionFailure{PartitionID: 1, Position: 9, Intent: intent.JobCreated, Err: tc.err}
		if got := failure.Code(); got != tc.want {
			t.Fatalf("Code(%v) = %s, want %s", tc.err, got, tc.want)
		}
		coded := failure.Coded()
		if apperrors.CodeOf(coded) != tc.want || coded.Metadata["position"] != "9" {
			t.Fatalf("Coded() = %+v", coded)
		}
		if !errors.Is(coded, tc.err) {
			t.Fatalf("Coded() lost cause %v", tc.err)
		}
	}
}
