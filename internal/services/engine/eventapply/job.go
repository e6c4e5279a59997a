package eventapply

import (
	"fmt"
	"slices"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerJob(b *applier.Builder) {
	register(b, intent.JobCreated, 1, a.applyJobCreated)
	register(b, intent.JobCompleted, 1, a.applyJobCompleted)
	register(b, intent.JobFailed, 1, a.applyJobFailedV1)
	register(b, intent.JobFailed, 2, a.applyJobFailedV2)
	register(b, intent.JobTimedOut, 1, a.applyJobTimedOutV1)
	register(b, intent.JobTimedOut, 2, a.applyJobTimedOutV2)
	register(b, intent.JobRetriesUpdated, 1, a.applyJobRetriesUpdated)
	register(b, intent.JobCanceled, 1, a.applyJobCanceled)
	register(b, intent.JobErrorThrown, 1, a.applyJobErrorThrown)
	register(b, intent.JobRecurredAfterBackoff, 1, a.applyJobRecurredAfterBackoff)
	register(b, intent.JobYielded, 1, a.applyJobYielded)
	register(b, intent.JobMigrated, 1, a.applyJobMigratedV1)
	register(b, intent.JobMigrated, 2, a.applyJobMigratedV2)
	register(b, intent.JobTimeoutUpdated, 1, a.applyJobTimeoutUpdated)
	register(b, intent.JobUpdated, 1, a.applyJobUpdated)
	register(b, intent.JobBatchActivated, 1, a.applyJobBatchActivated)
}

// applyJobCreated stores the job as activatable and points its element
// instance at it.
func (a Appliers) applyJobCreated(key int64, v record.JobValue) error {
	if err := a.Job.PutJob(state.Job{Key: key, State: state.JobActivatable, Value: v}); err != nil {
		return err
	}
	if err := a.Job.AddActivatable(v.Type, key); err != nil {
		return err
	}
	err := a.updateInstance(v.ElementInstanceKey, func(instance *state.ElementInstance) {
		instance.JobKey = key
	})
	return optional(err)
}

func (a Appliers) applyJobBatchActivated(_ int64, v record.JobBatchValue) error {
	if len(v.JobKeys) != len(v.Jobs) {
		return fmt.Errorf("job batch has %d keys and %d jobs", len(v.JobKeys), len(v.Jobs))
	}
	for i, key := range v.JobKeys {
		job, err := a.Job.GetJob(key)
		if err != nil {
			return err
		}
		if err := a.unindexJob(job); err != nil {
			return err
		}
		job.State = state.JobActivated
		job.Value = v.Jobs[i]
		if err := a.Job.AddDeadline(job.Value.Deadline, key); err != nil {
			return err
		}
		if err := a.Job.PutJob(job); err != nil {
			return err
		}
	}
	return nil
}

// applyJobCompleted deletes the job, releases the element instance reference
// and advances the listener index of the phase the job ran for.
func (a Appliers) applyJobCompleted(key int64, v record.JobValue) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := a.deleteJob(job); err != nil {
		return err
	}

	instance, err := a.ElementInstance.GetInstance(job.Value.ElementInstanceKey)
	if err := optional(err); err != nil {
		return err
	}
	if err != nil {
		return nil
	}
	if instance.JobKey == key {
		instance.JobKey = 0
	}
	if job.Value.Kind == record.JobKindExecutionListener {
		instance.ExecutionListenerIndex++
	}
	if err := a.ElementInstance.PutInstance(instance); err != nil {
		return err
	}

	if job.Value.Kind != record.JobKindTaskListener || instance.UserTaskKey == 0 {
		return nil
	}
	eventType := v.ListenerEventType
	if eventType == "" {
		eventType = job.Value.ListenerEventType
	}
	return a.updateUserTask(instance.UserTaskKey, func(task *state.UserTask) {
		if task.ListenerIndices == nil {
			task.ListenerIndices = make(map[string]int)
		}
		task.ListenerIndices[eventType]++
	})
}

func (a Appliers) applyJobFailedV1(key int64, v record.JobValue) error {
	return a.failJob(key, v, false)
}

// applyJobFailedV2 keeps a job with a retry backoff in FAILED until it recurs.
func (a Appliers) applyJobFailedV2(key int64, v record.JobValue) error {
	return a.failJob(key, v, true)
}

func (a Appliers) failJob(key int64, v record.JobValue, honourBackoff bool) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := a.unindexJob(job); err != nil {
		return err
	}
	job.Value.Retries = v.Retries
	job.Value.ErrorMessage = v.ErrorMessage
	job.Value.Deadline = 0
	job.Value.Worker = ""
	switch {
	case v.Retries > 0 && honourBackoff && v.RetryBackoff > 0:
		job.State = state.JobFailed
		job.Value.RetryBackoff = v.RetryBackoff
		job.Value.RecurringTime = v.RecurringTime
		if err := a.Job.AddBackoff(v.RecurringTime, key); err != nil {
			return err
		}
	case v.Retries > 0:
		job.State = state.JobActivatable
		if err := a.Job.AddActivatable(job.Value.Type, key); err != nil {
			return err
		}
	default:
		job.State = state.JobFailed
	}
	return a.Job.PutJob(job)
}

func (a Appliers) applyJobTimedOutV1(key int64, _ record.JobValue) error {
	return a.timeOutJob(key, func(*state.Job) {})
}

// applyJobTimedOutV2 also forgets the worker and deadline of the expired
// activation.
func (a Appliers) applyJobTimedOutV2(key int64, _ record.JobValue) error {
	return a.timeOutJob(key, func(job *state.Job) {
		job.Value.Worker = ""
		job.Value.Deadline = 0
	})
}

func (a Appliers) timeOutJob(key int64, mutate func(*state.Job)) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := a.unindexJob(job); err != nil {
		return err
	}
	job.State = state.JobActivatable
	mutate(&job)
	if err := a.Job.AddActivatable(job.Value.Type, key); err != nil {
		return err
	}
	return a.Job.PutJob(job)
}

func (a Appliers) applyJobRetriesUpdated(key int64, v record.JobValue) error {
	return a.updateJob(key, func(job *state.Job) error {
		job.Value.Retries = v.Retries
		return nil
	})
}

func (a Appliers) applyJobCanceled(key int64, _ record.JobValue) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := a.deleteJob(job); err != nil {
		return err
	}
	return a.releaseJobReference(job.Value.ElementInstanceKey, key)
}

func (a Appliers) applyJobErrorThrown(key int64, v record.JobValue) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := a.unindexJob(job); err != nil {
		return err
	}
	job.State = state.JobErrorThrown
	job.Value.ErrorCode = v.ErrorCode
	job.Value.ErrorMessage = v.ErrorMessage
	job.Value.Deadline = 0
	return a.Job.PutJob(job)
}

func (a Appliers) applyJobRecurredAfterBackoff(key int64, _ record.JobValue) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := a.unindexJob(job); err != nil {
		return err
	}
	job.State = state.JobActivatable
	job.Value.RecurringTime = 0
	if err := a.Job.AddActivatable(job.Value.Type, key); err != nil {
		return err
	}
	return a.Job.PutJob(job)
}

func (a Appliers) applyJobYielded(key int64, _ record.JobValue) error {
	return a.timeOutJob(key, func(job *state.Job) {
		job.Value.Worker = ""
		job.Value.Deadline = 0
	})
}

func (a Appliers) applyJobMigratedV1(key int64, v record.JobValue) error {
	return a.updateJob(key, func(job *state.Job) error {
		job.Value.BpmnProcessID = v.BpmnProcessID
		job.Value.ProcessDefinitionKey = v.ProcessDefinitionKey
		job.Value.ElementID = v.ElementID
		return nil
	})
}

// applyJobMigratedV2 migrates the job first, then clears the element
// instance's job reference if the job it points to no longer exists.
func (a Appliers) applyJobMigratedV2(key int64, v record.JobValue) error {
	if err := a.applyJobMigratedV1(key, v); err != nil {
		return err
	}
	instance, err := a.ElementInstance.GetInstance(v.ElementInstanceKey)
	if err != nil {
		return optional(err)
	}
	if instance.JobKey == 0 {
		return nil
	}
	if _, err := a.Job.GetJob(instance.JobKey); err == nil {
		return nil
	} else if optional(err) != nil {
		return err
	}
	instance.JobKey = 0
	return a.ElementInstance.PutInstance(instance)
}

func (a Appliers) applyJobTimeoutUpdated(key int64, v record.JobValue) error {
	return a.updateJob(key, func(job *state.Job) error {
		return a.moveDeadline(job, v.Deadline)
	})
}

func (a Appliers) applyJobUpdated(key int64, v record.JobValue) error {
	return a.updateJob(key, func(job *state.Job) error {
		if slices.Contains(v.ChangedAttributes, record.AttributeRetries) {
			job.Value.Retries = v.Retries
		}
		if slices.Contains(v.ChangedAttributes, record.AttributeTimeout) {
			return a.moveDeadline(job, v.Deadline)
		}
		return nil
	})
}

// moveDeadline reindexes an activated job under its new deadline.
func (a Appliers) moveDeadline(job *state.Job, deadline int64) error {
	if job.State == state.JobActivated {
		if err := a.Job.RemoveDeadline(job.Value.Deadline, job.Key); err != nil {
			return err
		}
		if err := a.Job.AddDeadline(deadline, job.Key); err != nil {
			return err
		}
	}
	job.Value.Deadline = deadline
	return nil
}

func (a Appliers) updateJob(key int64, mutate func(*state.Job) error) error {
	job, err := a.Job.GetJob(key)
	if err != nil {
		return err
	}
	if err := mutate(&job); err != nil {
		return err
	}
	return a.Job.PutJob(job)
}

// unindexJob removes the scheduling index entry that matches the job's state.
func (a Appliers) unindexJob(job state.Job) error {
	switch job.State {
	case state.JobActivatable:
		return a.Job.RemoveActivatable(job.Value.Type, job.Key)
	case state.JobActivated:
		return a.Job.RemoveDeadline(job.Value.Deadline, job.Key)
	case state.JobFailed:
		if job.Value.RecurringTime > 0 {
			return a.Job.RemoveBackoff(job.Value.RecurringTime, job.Key)
		}
	}
	return nil
}

func (a Appliers) deleteJob(job state.Job) error {
	if err := a.unindexJob(job); err != nil {
		return err
	}
	return a.Job.DeleteJob(job.Key)
}

func (a Appliers) releaseJobReference(elementInstanceKey, jobKey int64) error {
	err := a.updateInstance(elementInstanceKey, func(instance *state.ElementInstance) {
		if instance.JobKey == jobKey {
			instance.JobKey = 0
		}
	})
	return optional(err)
}
