package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerEngine(b *applier.Builder) {
	register(b, intent.ClockPinned, 1, a.applyClockPinned)
	register(b, intent.ClockResetted, 1, a.applyClockResetted)
	register(b, intent.UsageMetricExported, 1, a.applyUsageMetricExported)
}

func (a Appliers) applyClockPinned(_ int64, v record.ClockValue) error {
	return a.Clock.PinClock(v.Time)
}

func (a Appliers) applyClockResetted(_ int64, _ record.ClockValue) error {
	return a.Clock.ResetClock()
}

// applyUsageMetricExported starts the next bucket at the reset time the
// exporter wrote into the event, never at the replaying node's clock.
func (a Appliers) applyUsageMetricExported(_ int64, v record.UsageMetricValue) error {
	return a.UsageMetric.PutUsageBucket(state.UsageBucket{StartTime: v.ResetTime})
}
