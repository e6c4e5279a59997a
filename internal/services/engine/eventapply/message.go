package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerMessage(b *applier.Builder) {
	register(b, intent.MessagePublished, 1, a.applyMessagePublished)
	register(b, intent.MessageExpired, 1, a.applyMessageExpired)

	register(b, intent.MessageSubscriptionCreated, 1, a.applyMessageSubscriptionCreated)
	register(b, intent.MessageSubscriptionCorrelating, 1, a.applyMessageSubscriptionCorrelating)
	register(b, intent.MessageSubscriptionCorrelated, 1, a.applyMessageSubscriptionCorrelated)
	register(b, intent.MessageSubscriptionRejected, 1, a.applyMessageSubscriptionRejected)
	register(b, intent.MessageSubscriptionDeleted, 1, a.applyMessageSubscriptionDeleted)
	register(b, intent.MessageSubscriptionMigrated, 1, a.applyMessageSubscriptionMigrated)

	register(b, intent.ProcessMessageSubscriptionCreating, 1, a.applyProcessMessageSubscriptionCreating)
	register(b, intent.ProcessMessageSubscriptionCreated, 1, a.applyProcessMessageSubscriptionCreated)
	register(b, intent.ProcessMessageSubscriptionCorrelated, 1, a.applyProcessMessageSubscriptionCorrelated)
	register(b, intent.ProcessMessageSubscriptionDeleting, 1, a.applyProcessMessageSubscriptionDeleting)
	register(b, intent.ProcessMessageSubscriptionDeleted, 1, a.applyProcessMessageSubscriptionDeleted)
	register(b, intent.ProcessMessageSubscriptionMigrated, 1, a.applyProcessMessageSubscriptionMigrated)

	register(b, intent.MessageStartEventSubscriptionCreated, 1, a.applyStartEventSubscriptionCreated)
	register(b, intent.MessageStartEventSubscriptionCorrelated, 1, a.applyStartEventSubscriptionCorrelated)
	register(b, intent.MessageStartEventSubscriptionDeleted, 1, a.applyStartEventSubscriptionDeleted)
}

func (a Appliers) applyMessagePublished(key int64, v record.MessageValue) error {
	return a.Message.PutMessage(state.Message{Key: key, Value: v})
}

func (a Appliers) applyMessageExpired(key int64, _ record.MessageValue) error {
	return a.Message.DeleteMessage(key)
}

// applyMessageSubscriptionCreated replaces any subscription of the same
// element instance and message name, so at most one is ever active.
func (a Appliers) applyMessageSubscriptionCreated(key int64, v record.MessageSubscriptionValue) error {
	return a.MessageSubscription.PutMessageSubscription(state.MessageSubscription{Key: key, Value: v})
}

// applyMessageSubscriptionCorrelating marks the subscription busy and the
// message as correlated to the subscription's process.
func (a Appliers) applyMessageSubscriptionCorrelating(_ int64, v record.MessageSubscriptionValue) error {
	if err := a.updateMessageSubscription(v, func(sub *state.MessageSubscription) {
		sub.Correlating = true
		sub.Value.MessageKey = v.MessageKey
		sub.Value.Variables = v.Variables
	}); err != nil {
		return err
	}
	return a.Message.MarkCorrelated(v.MessageKey, v.BpmnProcessID)
}

// applyMessageSubscriptionCorrelated closes interrupting subscriptions and
// reopens the others for the next message.
func (a Appliers) applyMessageSubscriptionCorrelated(_ int64, v record.MessageSubscriptionValue) error {
	sub, err := a.MessageSubscription.GetMessageSubscription(v.ElementInstanceKey, v.MessageName)
	if err != nil {
		return err
	}
	if sub.Value.Interrupting {
		return a.MessageSubscription.DeleteMessageSubscription(v.ElementInstanceKey, v.MessageName)
	}
	sub.Correlating = false
	sub.Value.MessageKey = v.MessageKey
	return a.MessageSubscription.PutMessageSubscription(sub)
}

// applyMessageSubscriptionRejected undoes the correlation mark so the
// message can correlate to the process again.
func (a Appliers) applyMessageSubscriptionRejected(_ int64, v record.MessageSubscriptionValue) error {
	if err := a.Message.RemoveCorrelation(v.MessageKey, v.BpmnProcessID); err != nil {
		return err
	}
	err := a.updateMessageSubscription(v, func(sub *state.MessageSubscription) {
		if sub.Value.MessageKey == v.MessageKey {
			sub.Correlating = false
		}
	})
	return optional(err)
}

func (a Appliers) applyMessageSubscriptionDeleted(_ int64, v record.MessageSubscriptionValue) error {
	return a.MessageSubscription.DeleteMessageSubscription(v.ElementInstanceKey, v.MessageName)
}

func (a Appliers) applyMessageSubscriptionMigrated(_ int64, v record.MessageSubscriptionValue) error {
	return a.updateMessageSubscription(v, func(sub *state.MessageSubscription) {
		sub.Value.BpmnProcessID = v.BpmnProcessID
	})
}

func (a Appliers) updateMessageSubscription(v record.MessageSubscriptionValue, mutate func(*state.MessageSubscription)) error {
	sub, err := a.MessageSubscription.GetMessageSubscription(v.ElementInstanceKey, v.MessageName)
	if err != nil {
		return err
	}
	mutate(&sub)
	return a.MessageSubscription.PutMessageSubscription(sub)
}

func (a Appliers) applyProcessMessageSubscriptionCreating(key int64, v record.ProcessMessageSubscriptionValue) error {
	return a.ProcessMessageSubscription.PutProcessMessageSubscription(state.ProcessMessageSubscription{
		Key:   key,
		State: state.SubscriptionOpening,
		Value: v,
	})
}

func (a Appliers) applyProcessMessageSubscriptionCreated(_ int64, v record.ProcessMessageSubscriptionValue) error {
	return a.updateProcessMessageSubscription(v, func(sub *state.ProcessMessageSubscription) {
		sub.State = state.SubscriptionOpened
	})
}

func (a Appliers) applyProcessMessageSubscriptionCorrelated(_ int64, v record.ProcessMessageSubscriptionValue) error {
	sub, err := a.ProcessMessageSubscription.GetProcessMessageSubscription(v.ElementInstanceKey, v.MessageName)
	if err != nil {
		return err
	}
	if sub.Value.Interrupting {
		return a.ProcessMessageSubscription.DeleteProcessMessageSubscription(v.ElementInstanceKey, v.MessageName)
	}
	sub.Value.MessageKey = v.MessageKey
	return a.ProcessMessageSubscription.PutProcessMessageSubscription(sub)
}

func (a Appliers) applyProcessMessageSubscriptionDeleting(_ int64, v record.ProcessMessageSubscriptionValue) error {
	return a.updateProcessMessageSubscription(v, func(sub *state.ProcessMessageSubscription) {
		sub.State = state.SubscriptionClosing
	})
}

func (a Appliers) applyProcessMessageSubscriptionDeleted(_ int64, v record.ProcessMessageSubscriptionValue) error {
	return a.ProcessMessageSubscription.DeleteProcessMessageSubscription(v.ElementInstanceKey, v.MessageName)
}

func (a Appliers) applyProcessMessageSubscriptionMigrated(_ int64, v record.ProcessMessageSubscriptionValue) error {
	return a.updateProcessMessageSubscription(v, func(sub *state.ProcessMessageSubscription) {
		sub.Value.BpmnProcessID = v.BpmnProcessID
		sub.Value.ElementID = v.ElementID
	})
}

func (a Appliers) updateProcessMessageSubscription(v record.ProcessMessageSubscriptionValue, mutate func(*state.ProcessMessageSubscription)) error {
	sub, err := a.ProcessMessageSubscription.GetProcessMessageSubscription(v.ElementInstanceKey, v.MessageName)
	if err != nil {
		return err
	}
	mutate(&sub)
	return a.ProcessMessageSubscription.PutProcessMessageSubscription(sub)
}

func (a Appliers) applyStartEventSubscriptionCreated(key int64, v record.MessageStartEventSubscriptionValue) error {
	return a.MessageStartEventSubscription.PutStartEventSubscription(state.MessageStartEventSubscription{Key: key, Value: v})
}

// applyStartEventSubscriptionCorrelated marks the message as used by the
// process and reserves its correlation key for the new instance.
func (a Appliers) applyStartEventSubscriptionCorrelated(_ int64, v record.MessageStartEventSubscriptionValue) error {
	if err := a.Message.MarkCorrelated(v.MessageKey, v.BpmnProcessID); err != nil {
		return err
	}
	if v.CorrelationKey == "" {
		return nil
	}
	return a.Message.SetActiveProcessInstance(v.BpmnProcessID, v.CorrelationKey, v.ProcessInstanceKey)
}

func (a Appliers) applyStartEventSubscriptionDeleted(_ int64, v record.MessageStartEventSubscriptionValue) error {
	return a.MessageStartEventSubscription.DeleteStartEventSubscription(v.ProcessDefinitionKey, v.MessageName)
}
