package eventapply

import (
	"fmt"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// Usage counter incremented for every root process instance.
const usageRootProcessInstances = "root_process_instances"

func (a Appliers) registerProcessInstance(b *applier.Builder) {
	register(b, intent.ElementActivating, 1, a.applyElementActivating)
	register(b, intent.ElementActivated, 1, a.applyElementActivated)
	register(b, intent.ElementCompleting, 1, a.applyElementCompleting)
	register(b, intent.ElementCompleted, 1, a.applyElementCompletedV1)
	register(b, intent.ElementCompleted, 2, a.applyElementCompletedV2)
	register(b, intent.ElementTerminating, 1, a.applyElementTerminating)
	register(b, intent.ElementTerminated, 1, a.applyElementTerminated)
	register(b, intent.SequenceFlowTaken, 1, a.applySequenceFlowTaken)
	register(b, intent.ElementMigrated, 1, a.applyElementMigrated)

	register(b, intent.ProcessEventTriggering, 1, a.applyProcessEventTriggering)
	register(b, intent.ProcessEventTriggered, 1, a.applyProcessEventTriggered)
}

// applyElementActivating creates the element instance. The mutation order is:
// flow scope bookkeeping, the instance itself, the calling element, then the
// variable and event scopes.
func (a Appliers) applyElementActivating(key int64, v record.ProcessInstanceValue) error {
	instance := state.ElementInstance{
		Key:       key,
		ParentKey: v.FlowScopeKey,
		State:     state.ElementActivating,
		Value:     v,
	}

	if v.FlowScopeKey > 0 {
		scope, err := a.ElementInstance.GetInstance(v.FlowScopeKey)
		if err != nil {
			return fmt.Errorf("flow scope %d: %w", v.FlowScopeKey, err)
		}
		scope.ChildCount++
		if scope.Value.BpmnElementType == record.ElementMultiInstanceBody {
			scope.MultiInstanceLoopCounter++
			instance.MultiInstanceLoopCounter = scope.MultiInstanceLoopCounter
		}
		if err := a.consumeSequenceFlows(&scope, v); err != nil {
			return err
		}
		if err := a.ElementInstance.PutInstance(scope); err != nil {
			return err
		}
	}

	if err := a.ElementInstance.PutInstance(instance); err != nil {
		return err
	}

	if v.BpmnElementType == record.ElementProcess && v.ParentElementInstanceKey > 0 {
		caller, err := a.ElementInstance.GetInstance(v.ParentElementInstanceKey)
		if err := optional(err); err != nil {
			return err
		}
		if err == nil {
			caller.CalledChildInstanceKey = key
			if err := a.ElementInstance.PutInstance(caller); err != nil {
				return err
			}
		}
	}

	if err := a.Variable.CreateScope(key, v.FlowScopeKey); err != nil {
		return err
	}
	return a.EventScope.PutEventScope(state.EventScope{Key: key, Accepting: true})
}

// consumeSequenceFlows releases the sequence flows that led to the element.
// Joining gateways consume every flow taken towards them.
func (a Appliers) consumeSequenceFlows(scope *state.ElementInstance, v record.ProcessInstanceValue) error {
	switch {
	case v.BpmnElementType.JoinsSequenceFlows():
		taken, err := a.ElementInstance.TakenSequenceFlows(scope.Key, v.ElementID)
		if err != nil {
			return err
		}
		scope.ActiveSequenceFlows = max(0, scope.ActiveSequenceFlows-len(taken))
		return a.ElementInstance.ClearTakenSequenceFlows(scope.Key, v.ElementID)
	case v.BpmnElementType.EnteredBySequenceFlow():
		scope.ActiveSequenceFlows = max(0, scope.ActiveSequenceFlows-1)
	}
	return nil
}

func (a Appliers) applyElementActivated(key int64, v record.ProcessInstanceValue) error {
	instance, err := a.transition(key, state.ElementActivated)
	if err != nil {
		return err
	}
	if instance.ParentKey > 0 {
		if err := a.updateInstance(instance.ParentKey, func(scope *state.ElementInstance) {
			scope.ChildActivatedCount++
		}); err != nil {
			return err
		}
	}
	if v.BpmnElementType == record.ElementProcess && v.ParentProcessInstanceKey <= 0 {
		return a.countUsage(usageRootProcessInstances)
	}
	return nil
}

func (a Appliers) applyElementCompleting(key int64, _ record.ProcessInstanceValue) error {
	return a.updateInstance(key, func(instance *state.ElementInstance) {
		instance.State = state.ElementCompleting
		instance.ExecutionListenerIndex = 0
	})
}

func (a Appliers) applyElementCompletedV1(key int64, v record.ProcessInstanceValue) error {
	return a.removeInstance(key, v, func(scope *state.ElementInstance) {
		scope.ChildCompletedCount++
	})
}

// applyElementCompletedV2 also drops the event scope and any triggers still
// queued on it.
func (a Appliers) applyElementCompletedV2(key int64, v record.ProcessInstanceValue) error {
	if err := a.applyElementCompletedV1(key, v); err != nil {
		return err
	}
	return a.EventScope.DeleteEventScope(key)
}

func (a Appliers) applyElementTerminating(key int64, _ record.ProcessInstanceValue) error {
	_, err := a.transition(key, state.ElementTerminating)
	return err
}

func (a Appliers) applyElementTerminated(key int64, v record.ProcessInstanceValue) error {
	if err := a.removeInstance(key, v, func(scope *state.ElementInstance) {
		scope.ChildTerminatedCount++
	}); err != nil {
		return err
	}
	return a.EventScope.DeleteEventScope(key)
}

// removeInstance is the shared tail of completion and termination: update the
// flow scope, release the calling element and the message correlation, then
// delete the variable scope and the instance.
func (a Appliers) removeInstance(key int64, v record.ProcessInstanceValue, countScope func(*state.ElementInstance)) error {
	instance, err := a.ElementInstance.GetInstance(key)
	if err != nil {
		return err
	}
	if instance.ParentKey > 0 {
		if err := a.updateInstance(instance.ParentKey, func(scope *state.ElementInstance) {
			scope.ChildCount = max(0, scope.ChildCount-1)
			countScope(scope)
		}); optional(err) != nil {
			return err
		}
	}
	if v.BpmnElementType == record.ElementProcess {
		if v.ParentElementInstanceKey > 0 {
			if err := a.updateInstance(v.ParentElementInstanceKey, func(caller *state.ElementInstance) {
				if caller.CalledChildInstanceKey == key {
					caller.CalledChildInstanceKey = 0
				}
			}); optional(err) != nil {
				return err
			}
		}
		if err := a.Message.RemoveActiveProcessInstance(key); err != nil {
			return err
		}
	}
	if err := a.Variable.RemoveScope(key); err != nil {
		return err
	}
	return a.ElementInstance.DeleteInstance(key)
}

// applySequenceFlowTaken adds an active flow to the flow scope. Flows towards
// joining gateways are remembered until the gateway activates.
func (a Appliers) applySequenceFlowTaken(_ int64, v record.ProcessInstanceValue) error {
	if err := a.updateInstance(v.FlowScopeKey, func(scope *state.ElementInstance) {
		scope.ActiveSequenceFlows++
	}); err != nil {
		return err
	}
	if v.TargetElementType.JoinsSequenceFlows() {
		return a.ElementInstance.AddTakenSequenceFlow(v.FlowScopeKey, v.TargetElementID, v.ElementID)
	}
	return nil
}

func (a Appliers) applyElementMigrated(key int64, v record.ProcessInstanceValue) error {
	return a.updateInstance(key, func(instance *state.ElementInstance) {
		instance.Value.BpmnProcessID = v.BpmnProcessID
		instance.Value.Version = v.Version
		instance.Value.ProcessDefinitionKey = v.ProcessDefinitionKey
		instance.Value.ElementID = v.ElementID
	})
}

func (a Appliers) applyProcessEventTriggering(key int64, v record.ProcessEventValue) error {
	return a.EventScope.AddTrigger(state.EventTrigger{
		Key:                key,
		ScopeKey:           v.ScopeKey,
		ElementID:          v.TargetElementID,
		ProcessInstanceKey: v.ProcessInstanceKey,
		Variables:          v.Variables,
	})
}

func (a Appliers) applyProcessEventTriggered(key int64, v record.ProcessEventValue) error {
	return a.EventScope.DeleteTrigger(v.ScopeKey, key)
}

func (a Appliers) transition(key int64, to string) (state.ElementInstance, error) {
	instance, err := a.ElementInstance.GetInstance(key)
	if err != nil {
		return instance, err
	}
	instance.State = to
	return instance, a.ElementInstance.PutInstance(instance)
}

// updateInstance reads, mutates and writes back one element instance.
func (a Appliers) updateInstance(key int64, mutate func(*state.ElementInstance)) error {
	instance, err := a.ElementInstance.GetInstance(key)
	if err != nil {
		return err
	}
	mutate(&instance)
	return a.ElementInstance.PutInstance(instance)
}

func (a Appliers) countUsage(counter string) error {
	bucket, err := a.UsageMetric.GetUsageBucket()
	if err != nil {
		return err
	}
	if bucket.Counters == nil {
		bucket.Counters = make(map[string]int64)
	}
	bucket.Counters[counter]++
	return a.UsageMetric.PutUsageBucket(bucket)
}
