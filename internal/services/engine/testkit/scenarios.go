package testkit

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
)

// UnknownIntent is never registered.
const UnknownIntent intent.Intent = "foo.barred"

// ScenarioA creates job 42.
func ScenarioA() Log {
	return Sequence(record.MustEvent(42, intent.JobCreated, 1, record.JobValue{Type: "payment", Retries: 3}))
}

// ScenarioB completes user task 7 with v1 and user task 8 with v2. Their
// element instances are 700 and 800.
func ScenarioB() Log {
	var events []record.Event
	for _, key := range []int64{7, 8} {
		elementKey := key * 100
		events = append(events,
			record.MustEvent(elementKey, intent.ElementActivating, 1, record.ProcessInstanceValue{
				ElementID:       "review",
				BpmnElementType: record.ElementUserTask,
			}),
			record.MustEvent(key, intent.UserTaskCreating, 1, record.UserTaskValue{ElementInstanceKey: elementKey}),
		)
	}
	events = append(events,
		record.MustEvent(7, intent.UserTaskCompleted, 1, record.UserTaskValue{ElementInstanceKey: 700}),
		record.MustEvent(8, intent.UserTaskCompleted, 2, record.UserTaskValue{ElementInstanceKey: 800}),
	)
	return Sequence(events...)
}

// ScenarioC creates job 42 and then hits an intent with no applier.
func ScenarioC() Log {
	return Sequence(
		record.MustEvent(42, intent.JobCreated, 1, record.JobValue{Type: "payment"}),
		record.MustEvent(43, UnknownIntent, 1, record.JobValue{Type: "payment"}),
	)
}

// ScenarioD creates job 42 and then applies job.created at a version only a
// newer engine knows.
func ScenarioD() Log {
	return Sequence(
		record.MustEvent(42, intent.JobCreated, 1, record.JobValue{Type: "payment"}),
		record.MustEvent(43, intent.JobCreated, 2, record.JobValue{Type: "payment"}),
	)
}

// OrderLifecycle runs one order process end to end, touching most state
// partitions along the way.
func OrderLifecycle() Log {
	root := record.ProcessInstanceValue{
		BpmnProcessID:        "order",
		ProcessDefinitionKey: 100,
		ElementID:            "order",
		BpmnElementType:      record.ElementProcess,
	}
	charge := record.ProcessInstanceValue{
		BpmnProcessID:        "order",
		ProcessDefinitionKey: 100,
		ElementID:            "charge",
		FlowScopeKey:         1,
		ProcessInstanceKey:   1,
		BpmnElementType:      record.ElementServiceTask,
	}
	review := charge
	review.ElementID = "review"
	review.BpmnElementType = record.ElementUserTask
	job := record.JobValue{
		Type:               "payment",
		Retries:            3,
		ElementID:          "charge",
		ElementInstanceKey: 2,
		ProcessInstanceKey: 1,
		BpmnProcessID:      "order",
	}
	activated := job
	activated.Worker = "billing-1"
	activated.Deadline = 9000

	return Sequence(
		record.MustEvent(record.NoKey, intent.ClockPinned, 1, record.ClockValue{Time: 1000}),
		record.MustEvent(100, intent.ProcessCreated, 1, record.ProcessValue{ProcessDefinitionKey: 100, BpmnProcessID: "order", Version: 1}),
		record.MustEvent(1, intent.ElementActivating, 1, root),
		record.MustEvent(1, intent.ElementActivated, 1, root),
		record.MustEvent(200, intent.VariableCreated, 1, record.VariableValue{Name: "total", Value: "42", ScopeKey: 1, ProcessInstanceKey: 1}),
		record.MustEvent(60, intent.MessagePublished, 1, record.MessageValue{Name: "paid", CorrelationKey: "o-1"}),
		record.MustEvent(61, intent.MessageSubscriptionCreated, 1, record.MessageSubscriptionValue{
			ElementInstanceKey: 1,
			BpmnProcessID:      "order",
			MessageName:        "paid",
			CorrelationKey:     "o-1",
		}),
		record.MustEvent(80, intent.TimerCreated, 1, record.TimerValue{ElementInstanceKey: 1, DueDate: 5000, TargetElementID: "reminder"}),

		record.MustEvent(2, intent.ElementActivating, 1, charge),
		record.MustEvent(2, intent.ElementActivated, 1, charge),
		record.MustEvent(42, intent.JobCreated, 1, job),
		record.MustEvent(record.NoKey, intent.JobBatchActivated, 1, record.JobBatchValue{
			Type:    "payment",
			Worker:  "billing-1",
			JobKeys: []int64{42},
			Jobs:    []record.JobValue{activated},
		}),
		record.MustEvent(42, intent.JobTimedOut, 2, job),
		record.MustEvent(90, intent.IncidentCreated, 1, record.IncidentValue{ErrorType: "JOB_NO_RETRIES", ElementInstanceKey: 2, JobKey: 42}),
		record.MustEvent(90, intent.IncidentResolved, 1, record.IncidentValue{}),
		record.MustEvent(42, intent.JobCompleted, 1, job),
		record.MustEvent(200, intent.VariableUpdated, 1, record.VariableValue{Name: "total", Value: "40", ScopeKey: 1}),
		record.MustEvent(2, intent.ElementCompleting, 1, charge),
		record.MustEvent(2, intent.ElementCompleted, 2, charge),

		record.MustEvent(3, intent.ElementActivating, 1, review),
		record.MustEvent(3, intent.ElementActivated, 1, review),
		record.MustEvent(7, intent.UserTaskCreating, 1, record.UserTaskValue{ElementInstanceKey: 3}),
		record.MustEvent(7, intent.UserTaskCompleted, 2, record.UserTaskValue{ElementInstanceKey: 3}),
		record.MustEvent(3, intent.ElementCompleting, 1, review),
		record.MustEvent(3, intent.ElementCompleted, 2, review),

		record.MustEvent(80, intent.TimerCanceled, 1, record.TimerValue{}),
		record.MustEvent(1, intent.ElementCompleting, 1, root),
		record.MustEvent(1, intent.ElementCompleted, 2, root),

		record.MustEvent(300, intent.UserCreated, 1, record.UserValue{Username: "ada", Name: "Ada"}),
		record.MustEvent(301, intent.GroupCreated, 1, record.GroupValue{ID: "billing"}),
		record.MustEvent(301, intent.GroupEntityAdded, 1, record.GroupValue{ID: "billing", EntityID: "ada", EntityType: record.EntityUser}),
		record.MustEvent(302, intent.AuthorizationCreated, 1, record.AuthorizationValue{
			OwnerID:      "billing",
			OwnerType:    record.OwnerGroup,
			ResourceType: "PROCESS_DEFINITION",
			Permissions:  []record.PermissionType{record.PermissionRead},
		}),
		record.MustEvent(70, intent.CommandDistributionStarted, 1, record.CommandDistributionValue{
			PartitionID: 1,
			ValueType:   intent.ValueTypeUser,
			Intent:      intent.UserCreate,
		}),
		record.MustEvent(70, intent.CommandDistributionDistributing, 1, record.CommandDistributionValue{PartitionID: 2}),
		record.MustEvent(70, intent.CommandDistributionAcknowledged, 1, record.CommandDistributionValue{PartitionID: 2}),
		record.MustEvent(70, intent.CommandDistributionFinished, 1, record.CommandDistributionValue{}),
		record.MustEvent(record.NoKey, intent.UsageMetricExported, 1, record.UsageMetricValue{ResetTime: 9000}),
		record.MustEvent(record.NoKey, intent.ClockResetted, 1, record.ClockValue{}),
	)
}
