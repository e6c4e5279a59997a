package state

import "github.com/louisbranch/waypoint/internal/services/engine/domain/record"

// Process definition lifecycle states.
const (
	ProcessStateCreated         = "CREATED"
	ProcessStatePendingDeletion = "PENDING_DELETION"
)

// Process is a deployed process definition.
type Process struct {
	Key   int64               `json:"key"`
	State string              `json:"state"`
	Value record.ProcessValue `json:"value"`
}

// Element instance lifecycle states.
const (
	ElementActivating  = "ELEMENT_ACTIVATING"
	ElementActivated   = "ELEMENT_ACTIVATED"
	ElementCompleting  = "ELEMENT_COMPLETING"
	ElementCompleted   = "ELEMENT_COMPLETED"
	ElementTerminating = "ELEMENT_TERMINATING"
	ElementTerminated  = "ELEMENT_TERMINATED"
)

// ElementInstance is one node of a process instance tree.
type ElementInstance struct {
	Key       int64                       `json:"key"`
	ParentKey int64                       `json:"parent_key,omitempty"`
	State     string                      `json:"state"`
	Value     record.ProcessInstanceValue `json:"value"`

	ChildCount           int `json:"child_count"`
	ChildActivatedCount  int `json:"child_activated_count"`
	ChildCompletedCount  int `json:"child_completed_count"`
	ChildTerminatedCount int `json:"child_terminated_count"`
	ActiveSequenceFlows  int `json:"active_sequence_flows"`

	MultiInstanceLoopCounter int   `json:"multi_instance_loop_counter,omitempty"`
	JobKey                   int64 `json:"job_key,omitempty"`
	UserTaskKey              int64 `json:"user_task_key,omitempty"`
	CalledChildInstanceKey   int64 `json:"called_child_instance_key,omitempty"`
	InterruptingEventKey     int64 `json:"interrupting_event_key,omitempty"`
	ExecutionListenerIndex   int   `json:"execution_listener_index,omitempty"`
}

// IsActive reports whether the instance may still make progress.
func (e ElementInstance) IsActive() bool {
	return e.State == ElementActivating || e.State == ElementActivated || e.State == ElementCompleting
}

// Variable is one named document in a variable scope. Value is JSON.
type Variable struct {
	Key                  int64  `json:"key"`
	ScopeKey             int64  `json:"scope_key"`
	Name                 string `json:"name"`
	Value                string `json:"value"`
	ProcessDefinitionKey int64  `json:"process_definition_key,omitempty"`
}

// EventScope tracks whether a scope still accepts event triggers.
type EventScope struct {
	Key         int64 `json:"key"`
	Accepting   bool  `json:"accepting"`
	Interrupted bool  `json:"interrupted"`
}

// EventTrigger is a pending trigger queued on an event scope.
type EventTrigger struct {
	Key                int64             `json:"key"`
	ScopeKey           int64             `json:"scope_key"`
	ElementID          string            `json:"element_id"`
	ProcessInstanceKey int64             `json:"process_instance_key"`
	Variables          map[string]string `json:"variables,omitempty"`
}

// Job lifecycle states.
const (
	JobActivatable = "ACTIVATABLE"
	JobActivated   = "ACTIVATED"
	JobFailed      = "FAILED"
	JobErrorThrown = "ERROR_THROWN"
)

// Job is a work item handed to external workers.
type Job struct {
	Key   int64           `json:"key"`
	State string          `json:"state"`
	Value record.JobValue `json:"value"`
}

// User task lifecycle states.
const (
	UserTaskCreating   = "CREATING"
	UserTaskCreated    = "CREATED"
	UserTaskAssigning  = "ASSIGNING"
	UserTaskClaiming   = "CLAIMING"
	UserTaskUpdating   = "UPDATING"
	UserTaskCompleting = "COMPLETING"
	UserTaskCanceling  = "CANCELING"
)

// UserTask is a work item completed by a person.
type UserTask struct {
	Key   int64                `json:"key"`
	State string               `json:"state"`
	Value record.UserTaskValue `json:"value"`
	// Intermediate holds the requested change while task listeners run.
	Intermediate *record.UserTaskValue `json:"intermediate,omitempty"`
	// ListenerIndices counts completed task listeners per listener event type.
	ListenerIndices map[string]int `json:"listener_indices,omitempty"`
}

// Incident is an open problem blocking an element or job.
type Incident struct {
	Key   int64                `json:"key"`
	Value record.IncidentValue `json:"value"`
}

// Timer is a scheduled trigger.
type Timer struct {
	Key   int64             `json:"key"`
	Value record.TimerValue `json:"value"`
}

// Message is a buffered published message.
type Message struct {
	Key   int64               `json:"key"`
	Value record.MessageValue `json:"value"`
}

// MessageSubscription is a subscription on the message partition, keyed by
// (element instance, message name).
type MessageSubscription struct {
	Key         int64                           `json:"key"`
	Correlating bool                            `json:"correlating"`
	Value       record.MessageSubscriptionValue `json:"value"`
}

// Process message subscription states.
const (
	SubscriptionOpening = "OPENING"
	SubscriptionOpened  = "OPENED"
	SubscriptionClosing = "CLOSING"
)

// ProcessMessageSubscription is the process side of a message subscription,
// keyed by (element instance, message name).
type ProcessMessageSubscription struct {
	Key   int64                                  `json:"key"`
	State string                                 `json:"state"`
	Value record.ProcessMessageSubscriptionValue `json:"value"`
}

// MessageStartEventSubscription opens a process on a message, keyed by
// (process definition, message name).
type MessageStartEventSubscription struct {
	Key   int64                                     `json:"key"`
	Value record.MessageStartEventSubscriptionValue `json:"value"`
}

// SignalSubscription is keyed by (signal name, subscription key).
type SignalSubscription struct {
	Key   int64                          `json:"key"`
	Value record.SignalSubscriptionValue `json:"value"`
}

// Distribution lifecycle states.
const (
	DistributionPending   = "PENDING"
	DistributionCompleted = "COMPLETED"
)

// Distribution is a command distributed to other partitions.
type Distribution struct {
	Key   int64                           `json:"key"`
	State string                          `json:"state"`
	Value record.CommandDistributionValue `json:"value"`
}

// User is an identity.
type User struct {
	Key      int64  `json:"key"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Relation names the side of a membership that owns members.
type Relation string

const (
	RelationGroup  Relation = "GROUP"
	RelationRole   Relation = "ROLE"
	RelationTenant Relation = "TENANT"
)

// Member is one entity in a group, role or tenant.
type Member struct {
	EntityType record.EntityType `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
}

// Group, Role and Tenant share the same stored shape.
type (
	Group  = Principal
	Role   = Principal
	Tenant = Principal
)

// Principal is a named collection of members.
type Principal struct {
	Key         int64  `json:"key"`
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Authorization grants permissions on a resource to an owner.
type Authorization struct {
	Key          int64                   `json:"key"`
	OwnerID      string                  `json:"owner_id"`
	OwnerType    record.OwnerType        `json:"owner_type"`
	ResourceType string                  `json:"resource_type"`
	ResourceID   string                  `json:"resource_id"`
	Permissions  []record.PermissionType `json:"permissions"`
}

// Clock is the engine clock override.
type Clock struct {
	Pinned bool  `json:"pinned"`
	Time   int64 `json:"time,omitempty"`
}

// UsageBucket is the active usage metric accumulation window.
type UsageBucket struct {
	StartTime int64            `json:"start_time"`
	Counters  map[string]int64 `json:"counters,omitempty"`
}
