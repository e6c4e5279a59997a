package replay

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
)

const (
	defaultPageSize = 200
	instrumentation = "github.com/louisbranch/waypoint/internal/services/engine/replay"
)

// Log lists committed events of one partition.
type Log interface {
	ReadEvents(ctx context.Context, partitionID int, afterPosition uint64, limit int) ([]record.Event, error)
}

// Applier applies one event to partition state. *applier.Registry
// implements it.
type Applier interface {
	Apply(evt record.Event) error
}

// Target is the transactional state an applier writes to.
type Target interface {
	LastAppliedPosition() (uint64, error)
	SetLastAppliedPosition(position uint64) error
	Commit() error
	Rollback() error
}

// Partition bundles everything needed to replay one partition.
type Partition struct {
	ID      int
	Log     Log
	Applier Applier
	Target  Target
}

func (p Partition) validate() error {
	switch {
	case p.Log == nil:
		return ErrLogRequired
	case p.Applier == nil:
		return ErrApplierRequired
	case p.Target == nil:
		return ErrTargetRequired
	}
	return nil
}

// Options configures replay behavior.
type Options struct {
	// UntilPosition stops replay after this position; zero means the end of
	// the log.
	UntilPosition uint64
	PageSize      int
	// Tracer and Meter default to the global providers.
	Tracer trace.Tracer
	Meter  metric.Meter
}

// Result captures replay outcomes.
type Result struct {
	LastPosition uint64
	Applied      int
}

type driver struct {
	partition Partition
	options   Options
	tracer    trace.Tracer
	applied   metric.Int64Counter
	attrs     attribute.Set
}

func newDriver(p Partition, options Options) (*driver, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if options.PageSize <= 0 {
		options.PageSize = defaultPageSize
	}
	tracer := options.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentation)
	}
	meter := options.Meter
	if meter == nil {
		meter = otel.Meter(instrumentation)
	}
	applied, err := meter.Int64Counter("waypoint.replay.events_applied",
		metric.WithDescription("Events applied to partition state."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create replay counter: %w", err)
	}
	return &driver{
		partition: p,
		options:   options,
		tracer:    tracer,
		applied:   applied,
		attrs:     attribute.NewSet(attribute.Int("partition", p.ID)),
	}, nil
}

// Replay applies every event after the target's last applied position, in
// order, until the log is exhausted or UntilPosition is reached. State and
// position are committed together after each event. Any failure rolls back
// the open transaction and is returned as a *PartitionFailure.
func Replay(ctx context.Context, p Partition, options Options) (Result, error) {
	d, err := newDriver(p, options)
	if err != nil {
		return Result{}, err
	}
	return d.run(ctx)
}

func (d *driver) run(ctx context.Context) (Result, error) {
	last, err := d.partition.Target.LastAppliedPosition()
	if err != nil {
		return Result{}, d.fail(0, "", fmt.Errorf("read last applied position: %w", err))
	}
	result := Result{LastPosition: last}
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if d.reachedUntil(result.LastPosition) {
			return result, nil
		}
		n, done, err := d.page(ctx, &result)
		if err != nil || done || n == 0 {
			return result, err
		}
	}
}

func (d *driver) reachedUntil(position uint64) bool {
	return d.options.UntilPosition > 0 && position >= d.options.UntilPosition
}

// page applies one page of events. done reports that UntilPosition was
// reached inside the page.
func (d *driver) page(ctx context.Context, result *Result) (int, bool, error) {
	p := d.partition
	events, err := p.Log.ReadEvents(ctx, p.ID, result.LastPosition, d.options.PageSize)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, d.fail(result.LastPosition, "", fmt.Errorf("read events: %w", err))
	}
	if len(events) == 0 {
		return 0, false, nil
	}

	ctx, span := d.tracer.Start(ctx, "replay.page", trace.WithAttributes(
		attribute.Int("partition", p.ID),
		attribute.Int64("after_position", int64(result.LastPosition)),
		attribute.Int("events", len(events)),
	))
	defer span.End()

	applied := 0
	defer func() {
		d.applied.Add(ctx, int64(applied), metric.WithAttributeSet(d.attrs))
	}()
	for _, evt := range events {
		if d.reachedUntil(result.LastPosition) {
			return applied, true, nil
		}
		if err := d.apply(evt, result.LastPosition); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "replay failed")
			return applied, false, err
		}
		result.LastPosition = evt.Position
		result.Applied++
		applied++
	}
	return applied, false, nil
}

func (d *driver) apply(evt record.Event, last uint64) error {
	t := d.partition.Target
	if want := last + 1; evt.Position != want {
		return d.fail(evt.Position, evt.Intent, fmt.Errorf("%w: expected %d got %d", ErrPositionGap, want, evt.Position))
	}
	if err := d.partition.Applier.Apply(evt); err != nil {
		return d.rollback(evt, err)
	}
	if err := t.SetLastAppliedPosition(evt.Position); err != nil {
		return d.rollback(evt, err)
	}
	if err := t.Commit(); err != nil {
		return d.rollback(evt, err)
	}
	return nil
}

func (d *driver) rollback(evt record.Event, err error) error {
	if rbErr := d.partition.Target.Rollback(); rbErr != nil {
		err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
	}
	return d.fail(evt.Position, evt.Intent, err)
}

func (d *driver) fail(position uint64, in intent.Intent, err error) error {
	return &PartitionFailure{PartitionID: d.partition.ID, Position: position, Intent: in, Err: err}
}
