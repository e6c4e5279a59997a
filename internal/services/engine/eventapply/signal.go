package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerSignal(b *applier.Builder) {
	// Broadcasts and escalations leave no state behind; their effects are
	// the events written after them.
	b.Check(applier.RegisterNoop(b.Registry(), intent.SignalBroadcasted))
	b.Check(applier.RegisterNoop(b.Registry(), intent.EscalationEscalated))
	b.Check(applier.RegisterNoop(b.Registry(), intent.EscalationNotEscalated))

	register(b, intent.SignalSubscriptionCreated, 1, a.applySignalSubscriptionCreated)
	register(b, intent.SignalSubscriptionDeleted, 1, a.applySignalSubscriptionDeleted)
	register(b, intent.SignalSubscriptionMigrated, 1, a.applySignalSubscriptionMigrated)
}

func (a Appliers) applySignalSubscriptionCreated(key int64, v record.SignalSubscriptionValue) error {
	return a.SignalSubscription.PutSignalSubscription(state.SignalSubscription{Key: key, Value: v})
}

func (a Appliers) applySignalSubscriptionDeleted(_ int64, v record.SignalSubscriptionValue) error {
	return a.SignalSubscription.DeleteSignalSubscription(v.SignalName, v.SubscriptionKey())
}

func (a Appliers) applySignalSubscriptionMigrated(_ int64, v record.SignalSubscriptionValue) error {
	sub, err := a.SignalSubscription.GetSignalSubscription(v.SignalName, v.SubscriptionKey())
	if err != nil {
		return err
	}
	sub.Value.BpmnProcessID = v.BpmnProcessID
	sub.Value.ProcessDefinitionKey = v.ProcessDefinitionKey
	sub.Value.CatchEventID = v.CatchEventID
	return a.SignalSubscription.PutSignalSubscription(sub)
}
