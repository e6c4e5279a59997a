package eventapply

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func TestJobFailedVersionsTreatBackoffDifferently(t *testing.T) {
	tests := []struct {
		name      string
		version   int
		wantState string
	}{
		{name: "v1 ignores backoff", version: 1, wantState: state.JobActivatable},
		{name: "v2 honours backoff", version: 2, wantState: state.JobFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.apply(t, 5, intent.JobCreated, 1, record.JobValue{Type: "mail", Retries: 3})
			f.apply(t, 5, intent.JobFailed, tc.version, record.JobValue{
				Retries:       2,
				RetryBackoff:  1000,
				RecurringTime: 5000,
				ErrorMessage:  "smtp down",
			})

			job, err := f.state.GetJob(5)
			require.NoError(t, err)
			require.Equal(t, tc.wantState, job.State)
			require.Equal(t, 2, job.Value.Retries)
			require.Equal(t, "smtp down", job.Value.ErrorMessage)
		})
	}
}

func TestJobRecursAfterBackoff(t *testing.T) {
	f := newFixture(t)
	f.apply(t, 5, intent.JobCreated, 1, record.JobValue{Type: "mail", Retries: 3})
	f.apply(t, 5, intent.JobFailed, 2, record.JobValue{Retries: 2, RetryBackoff: 1000, RecurringTime: 5000})
	f.apply(t, 5, intent.JobRecurredAfterBackoff, 1, record.JobValue{})

	job, err := f.state.GetJob(5)
	require.NoError(t, err)
	require.Equal(t, state.JobActivatable, job.State)
	require.Zero(t, job.Value.RecurringTime)
}

func TestJobBatchActivatedRejectsMismatchedBatch(t *testing.T) {
	f := newFixture(t)
	err := f.registry.Apply(record.MustEvent(1, intent.JobBatchActivated, 1, record.JobBatchValue{
		JobKeys: []int64{1, 2},
		Jobs:    []record.JobValue{{}},
	}))
	require.Error(t, err)
}

func TestJobLifecycleThroughActivationAndCompletion(t *testing.T) {
	f := newFixture(t)
	f.apply(t, 10, intent.ElementActivating, 1, record.ProcessInstanceValue{BpmnElementType: record.ElementServiceTask})
	f.apply(t, 11, intent.JobCreated, 1, record.JobValue{Type: "ship", ElementInstanceKey: 10})

	instance, err := f.state.GetInstance(10)
	require.NoError(t, err)
	require.Equal(t, int64(11), instance.JobKey)

	f.apply(t, record.NoKey, intent.JobBatchActivated, 1, record.JobBatchValue{
		JobKeys: []int64{11},
		Jobs:    []record.JobValue{{Type: "ship", Worker: "w1", Deadline: 9000, ElementInstanceKey: 10}},
	})
	job, err := f.state.GetJob(11)
	require.NoError(t, err)
	require.Equal(t, state.JobActivated, job.State)
	require.Equal(t, "w1", job.Value.Worker)

	f.apply(t, 11, intent.JobTimedOut, 2, record.JobValue{})
	job, err = f.state.GetJob(11)
	require.NoError(t, err)
	require.Equal(t, state.JobActivatable, job.State)
	require.Empty(t, job.Value.Worker)
	require.Zero(t, job.Value.Deadline)

	f.apply(t, 11, intent.JobCompleted, 1, record.JobValue{})
	_, err = f.state.GetJob(11)
	require.ErrorIs(t, err, state.ErrNotFound)
	instance, err = f.state.GetInstance(10)
	require.NoError(t, err)
	require.Zero(t, instance.JobKey)
}

func TestExecutionListenerJobAdvancesListenerIndex(t *testing.T) {
	f := newFixture(t)
	f.apply(t, 10, intent.ElementActivating, 1, record.ProcessInstanceValue{BpmnElementType: record.ElementServiceTask})
	for i, key := range []int64{21, 22} {
		f.apply(t, key, intent.JobCreated, 1, record.JobValue{
			Type:               "listener",
			Kind:               record.JobKindExecutionListener,
			ElementInstanceKey: 10,
		})
		f.apply(t, key, intent.JobCompleted, 1, record.JobValue{})

		instance, err := f.state.GetInstance(10)
		require.NoError(t, err)
		require.Equal(t, i+1, instance.ExecutionListenerIndex)
	}

	f.apply(t, 10, intent.ElementCompleting, 1, record.ProcessInstanceValue{BpmnElementType: record.ElementServiceTask})
	instance, err := f.state.GetInstance(10)
	require.NoError(t, err)
	require.Zero(t, instance.ExecutionListenerIndex)
}

func TestTaskListenerJobAdvancesUserTaskListenerIndex(t *testing.T) {
	f := newFixture(t)
	f.apply(t, 10, intent.ElementActivating, 1, record.ProcessInstanceValue{BpmnElementType: record.ElementUserTask})
	f.apply(t, 30, intent.UserTaskCreating, 1, record.UserTaskValue{ElementInstanceKey: 10})
	f.apply(t, 31, intent.JobCreated, 1, record.JobValue{
		Type:               "notify",
		Kind:               record.JobKindTaskListener,
		ListenerEventType:  "creating",
		ElementInstanceKey: 10,
	})
	f.apply(t, 31, intent.JobCompleted, 1, record.JobValue{})

	task, err := f.state.GetUserTask(30)
	require.NoError(t, err)
	require.Equal(t, 1, task.ListenerIndices["creating"])

	f.apply(t, 30, intent.UserTaskCreated, 1, record.UserTaskValue{ElementInstanceKey: 10})
	task, err = f.state.GetUserTask(30)
	require.NoError(t, err)
	require.Equal(t, state.UserTaskCreated, task.State)
	require.Empty(t, task.ListenerIndices)
}

func TestJobMigratedV2ClearsDanglingJobReference(t *testing.T) {
	f := newFixture(t)
	f.apply(t, 10, intent.ElementActivating, 1, record.ProcessInstanceValue{BpmnElementType: record.ElementServiceTask})
	f.apply(t, 11, intent.JobCreated, 1, record.JobValue{Type: "ship", ElementInstanceKey: 10})
	f.apply(t, 12, intent.JobCreated, 1, record.JobValue{Type: "ship", ElementInstanceKey: 10})
	require.NoError(t, f.state.DeleteJob(12))

	f.apply(t, 11, intent.JobMigrated, 2, record.JobValue{
		BpmnProcessID:        "order-v2",
		ProcessDefinitionKey: 2,
		ElementID:            "ship",
		ElementInstanceKey:   10,
	})

	job, err := f.state.GetJob(11)
	require.NoError(t, err)
	require.Equal(t, "order-v2", job.Value.BpmnProcessID)
	instance, err := f.state.GetInstance(10)
	require.NoError(t, err)
	require.Zero(t, instance.JobKey)
}
