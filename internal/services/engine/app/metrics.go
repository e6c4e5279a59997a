package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
)

const meterName = "github.com/louisbranch/waypoint/internal/services/engine/app"

// storeMetrics reports Pebble reads and commits of one partition as OTel
// instruments.
type storeMetrics struct {
	attrs       metric.MeasurementOption
	readLatency metric.Float64Histogram
	readBytes   metric.Int64Counter
	commitTime  metric.Float64Histogram
	commitOps   metric.Int64Counter
	commitBytes metric.Int64Counter
}

var _ pebblestore.MetricsHook = (*storeMetrics)(nil)

func newStoreMetrics(meter metric.Meter, partitionID int) (*storeMetrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m := &storeMetrics{attrs: metric.WithAttributes(attribute.Int("partition", partitionID))}
	var err error
	if m.readLatency, err = meter.Float64Histogram("waypoint.state.read.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.readBytes, err = meter.Int64Counter("waypoint.state.read.bytes", metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.commitTime, err = meter.Float64Histogram("waypoint.state.commit.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.commitOps, err = meter.Int64Counter("waypoint.state.commit.operations", metric.WithUnit("{operation}")); err != nil {
		return nil, err
	}
	if m.commitBytes, err = meter.Int64Counter("waypoint.state.commit.bytes", metric.WithUnit("By")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *storeMetrics) ObserveRead(elapsed time.Duration, bytes int) {
	ctx := context.Background()
	m.readLatency.Record(ctx, elapsed.Seconds(), m.attrs)
	m.readBytes.Add(ctx, int64(bytes), m.attrs)
}

func (m *storeMetrics) ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int) {
	ctx := context.Background()
	m.commitTime.Record(ctx, elapsed.Seconds(), m.attrs)
	m.commitOps.Add(ctx, int64(numOps), m.attrs)
	m.commitBytes.Add(ctx, int64(bytes), m.attrs)
}
