package eventapply

import (
	"slices"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// Task listener event types. Their listener indices reset when the
// transition they guard finishes.
const (
	listenerCreating   = "creating"
	listenerAssigning  = "assigning"
	listenerUpdating   = "updating"
	listenerCompleting = "completing"
	listenerCanceling  = "canceling"
)

func (a Appliers) registerUserTask(b *applier.Builder) {
	register(b, intent.UserTaskCreating, 1, a.applyUserTaskCreating)
	register(b, intent.UserTaskCreated, 1, a.applyUserTaskCreated)
	register(b, intent.UserTaskAssigning, 1, a.applyUserTaskAssigning)
	register(b, intent.UserTaskClaiming, 1, a.applyUserTaskClaiming)
	register(b, intent.UserTaskAssigned, 1, a.applyUserTaskAssigned)
	register(b, intent.UserTaskUpdating, 1, a.applyUserTaskUpdating)
	register(b, intent.UserTaskUpdated, 1, a.applyUserTaskUpdated)
	register(b, intent.UserTaskCompleting, 1, a.applyUserTaskCompleting)
	register(b, intent.UserTaskCompleted, 1, a.applyUserTaskCompletedV1)
	register(b, intent.UserTaskCompleted, 2, a.applyUserTaskCompletedV2)
	register(b, intent.UserTaskCanceling, 1, a.applyUserTaskCanceling)
	register(b, intent.UserTaskCanceled, 1, a.applyUserTaskCanceled)
	register(b, intent.UserTaskAssignmentDenied, 1, a.applyUserTaskAssignmentDenied)
	register(b, intent.UserTaskCompletionDenied, 1, a.applyUserTaskCompletionDenied)
	register(b, intent.UserTaskMigrated, 1, a.applyUserTaskMigrated)
}

// applyUserTaskCreating stores the task and points its element instance at
// it.
func (a Appliers) applyUserTaskCreating(key int64, v record.UserTaskValue) error {
	if err := a.UserTask.PutUserTask(state.UserTask{Key: key, State: state.UserTaskCreating, Value: v}); err != nil {
		return err
	}
	err := a.updateInstance(v.ElementInstanceKey, func(instance *state.ElementInstance) {
		instance.UserTaskKey = key
	})
	return optional(err)
}

func (a Appliers) applyUserTaskCreated(key int64, v record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		task.Value = v
		settle(task, listenerCreating)
	})
}

func (a Appliers) applyUserTaskAssigning(key int64, v record.UserTaskValue) error {
	return a.beginUserTaskTransition(key, state.UserTaskAssigning, v)
}

func (a Appliers) applyUserTaskClaiming(key int64, v record.UserTaskValue) error {
	return a.beginUserTaskTransition(key, state.UserTaskClaiming, v)
}

func (a Appliers) applyUserTaskAssigned(key int64, v record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		task.Value.Assignee = v.Assignee
		settle(task, listenerAssigning)
	})
}

func (a Appliers) applyUserTaskUpdating(key int64, v record.UserTaskValue) error {
	return a.beginUserTaskTransition(key, state.UserTaskUpdating, v)
}

// applyUserTaskUpdated copies only the attributes the update changed.
func (a Appliers) applyUserTaskUpdated(key int64, v record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		for _, attr := range v.ChangedAttributes {
			switch attr {
			case record.AttributeAssignee:
				task.Value.Assignee = v.Assignee
			case record.AttributeCandidateGroups:
				task.Value.CandidateGroups = slices.Clone(v.CandidateGroups)
			case record.AttributeCandidateUsers:
				task.Value.CandidateUsers = slices.Clone(v.CandidateUsers)
			case record.AttributeDueDate:
				task.Value.DueDate = v.DueDate
			case record.AttributeFollowUpDate:
				task.Value.FollowUpDate = v.FollowUpDate
			case record.AttributePriority:
				task.Value.Priority = v.Priority
			}
		}
		settle(task, listenerUpdating)
	})
}

func (a Appliers) applyUserTaskCompleting(key int64, v record.UserTaskValue) error {
	return a.beginUserTaskTransition(key, state.UserTaskCompleting, v)
}

func (a Appliers) applyUserTaskCompletedV1(key int64, _ record.UserTaskValue) error {
	return a.UserTask.DeleteUserTask(key)
}

// applyUserTaskCompletedV2 deletes the task, then clears the element
// instance's user task reference.
func (a Appliers) applyUserTaskCompletedV2(key int64, v record.UserTaskValue) error {
	if err := a.applyUserTaskCompletedV1(key, v); err != nil {
		return err
	}
	return a.releaseUserTaskReference(v.ElementInstanceKey, key)
}

func (a Appliers) applyUserTaskCanceling(key int64, v record.UserTaskValue) error {
	return a.beginUserTaskTransition(key, state.UserTaskCanceling, v)
}

func (a Appliers) applyUserTaskCanceled(key int64, v record.UserTaskValue) error {
	if err := a.UserTask.DeleteUserTask(key); err != nil {
		return err
	}
	return a.releaseUserTaskReference(v.ElementInstanceKey, key)
}

func (a Appliers) applyUserTaskAssignmentDenied(key int64, _ record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		settle(task, listenerAssigning)
	})
}

func (a Appliers) applyUserTaskCompletionDenied(key int64, _ record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		settle(task, listenerCompleting)
	})
}

func (a Appliers) applyUserTaskMigrated(key int64, v record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		task.Value.BpmnProcessID = v.BpmnProcessID
		task.Value.ProcessDefinitionKey = v.ProcessDefinitionKey
		task.Value.ElementID = v.ElementID
	})
}

// beginUserTaskTransition parks the requested change while task listeners
// run.
func (a Appliers) beginUserTaskTransition(key int64, to string, v record.UserTaskValue) error {
	return a.updateUserTask(key, func(task *state.UserTask) {
		task.State = to
		pending := v
		task.Intermediate = &pending
	})
}

// settle returns the task to CREATED and resets the listener index of the
// finished transition.
func settle(task *state.UserTask, listenerEventType string) {
	task.State = state.UserTaskCreated
	task.Intermediate = nil
	delete(task.ListenerIndices, listenerEventType)
	if len(task.ListenerIndices) == 0 {
		task.ListenerIndices = nil
	}
}

func (a Appliers) updateUserTask(key int64, mutate func(*state.UserTask)) error {
	task, err := a.UserTask.GetUserTask(key)
	if err != nil {
		return err
	}
	mutate(&task)
	return a.UserTask.PutUserTask(task)
}

func (a Appliers) releaseUserTaskReference(elementInstanceKey, userTaskKey int64) error {
	err := a.updateInstance(elementInstanceKey, func(instance *state.ElementInstance) {
		if instance.UserTaskKey == userTaskKey {
			instance.UserTaskKey = 0
		}
	})
	return optional(err)
}
