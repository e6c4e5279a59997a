package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerTimer(b *applier.Builder) {
	register(b, intent.TimerCreated, 1, a.applyTimerCreated)
	register(b, intent.TimerTriggered, 1, a.applyTimerRemoved)
	register(b, intent.TimerCanceled, 1, a.applyTimerRemoved)
	register(b, intent.TimerMigrated, 1, a.applyTimerMigrated)
}

func (a Appliers) applyTimerCreated(key int64, v record.TimerValue) error {
	return a.Timer.PutTimer(state.Timer{Key: key, Value: v})
}

// applyTimerRemoved serves both triggered and canceled timers.
func (a Appliers) applyTimerRemoved(key int64, _ record.TimerValue) error {
	return a.Timer.DeleteTimer(key)
}

func (a Appliers) applyTimerMigrated(key int64, v record.TimerValue) error {
	timer, err := a.Timer.GetTimer(key)
	if err != nil {
		return err
	}
	timer.Value.ProcessDefinitionKey = v.ProcessDefinitionKey
	timer.Value.TargetElementID = v.TargetElementID
	return a.Timer.PutTimer(timer)
}
