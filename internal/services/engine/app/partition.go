package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/louisbranch/waypoint/internal/platform/errors"
	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/eventapply"
	"github.com/louisbranch/waypoint/internal/services/engine/replay"
	"github.com/louisbranch/waypoint/internal/services/engine/state/pebblestate"
)

// partition owns the state, registry and replay progress of one partition.
// The state is touched only by the replay goroutine; mu guards the progress
// fields read by diagnostics.
type partition struct {
	id       int
	db       *pebblestore.DB
	state    *pebblestate.State
	registry *applier.Registry

	mu          sync.Mutex
	lastApplied uint64
	failure     error
}

func openPartition(cfg Config, id int, meter metric.Meter) (*partition, error) {
	dir := filepath.Join(cfg.DataDir, fmt.Sprintf("partition-%d", id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create partition dir: %w", err)
	}
	metrics, err := newStoreMetrics(meter, id)
	if err != nil {
		return nil, fmt.Errorf("partition %d metrics: %w", id, err)
	}
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: dir,
		Fsync:   cfg.Fsync,
		Metrics: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("open partition %d state: %w", id, err)
	}
	s := pebblestate.New(db)
	registry, err := eventapply.Build(s)
	if err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(apperrors.CodeApplierRegistrationInvalid, err.Error(), err)
	}
	last, err := s.LastAppliedPosition()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("partition %d position: %w", id, err)
	}
	log.Printf("partition %d recovered at position %d", id, last)
	return &partition{id: id, db: db, state: s, registry: registry, lastApplied: last}, nil
}

func (p *partition) healthName() string {
	return fmt.Sprintf("partition-%d", p.id)
}

// follow replays the partition until ctx ends or the partition fails. A
// failure is recorded and reported through onFailure; it never stops other
// partitions.
func (p *partition) follow(ctx context.Context, source replay.Log, options replay.FollowOptions, onFailure func(error)) {
	options.Progress = func(r replay.Result) {
		p.mu.Lock()
		p.lastApplied = r.LastPosition
		p.mu.Unlock()
	}
	_, err := replay.Follow(ctx, replay.Partition{
		ID:      p.id,
		Log:     source,
		Applier: p.registry,
		Target:  p.state,
	}, options)
	if err == nil {
		return
	}
	p.mu.Lock()
	p.failure = err
	p.mu.Unlock()
	onFailure(err)
}

func (p *partition) progress() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastApplied, p.failure
}

func (p *partition) close() error {
	return p.db.Close()
}
