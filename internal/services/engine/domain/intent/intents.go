package intent

// Process definition events.
var (
	ProcessCreated  = event(ValueTypeProcess, "created")
	ProcessDeleting = event(ValueTypeProcess, "deleting")
	ProcessDeleted  = event(ValueTypeProcess, "deleted")
)

// Process instance commands and events.
var (
	ProcessInstanceActivateElement  = command(ValueTypeProcessInstance, "activate_element")
	ProcessInstanceCompleteElement  = command(ValueTypeProcessInstance, "complete_element")
	ProcessInstanceTerminateElement = command(ValueTypeProcessInstance, "terminate_element")
	ProcessInstanceCancel           = command(ValueTypeProcessInstance, "cancel")

	ElementActivating  = event(ValueTypeProcessInstance, "element_activating")
	ElementActivated   = event(ValueTypeProcessInstance, "element_activated")
	ElementCompleting  = event(ValueTypeProcessInstance, "element_completing")
	ElementCompleted   = event(ValueTypeProcessInstance, "element_completed")
	ElementTerminating = event(ValueTypeProcessInstance, "element_terminating")
	ElementTerminated  = event(ValueTypeProcessInstance, "element_terminated")
	SequenceFlowTaken  = event(ValueTypeProcessInstance, "sequence_flow_taken")
	ElementMigrated    = event(ValueTypeProcessInstance, "element_migrated")
)

// Process event triggers (boundary, event sub-process and intermediate catch).
var (
	ProcessEventTriggering = event(ValueTypeProcessEvent, "triggering")
	ProcessEventTriggered  = event(ValueTypeProcessEvent, "triggered")
)

// Job commands and events.
var (
	JobComplete      = command(ValueTypeJob, "complete")
	JobFail          = command(ValueTypeJob, "fail")
	JobThrowError    = command(ValueTypeJob, "throw_error")
	JobUpdateRetries = command(ValueTypeJob, "update_retries")
	JobTimeOut       = command(ValueTypeJob, "time_out")
	JobCancel        = command(ValueTypeJob, "cancel")

	JobCreated              = event(ValueTypeJob, "created")
	JobCompleted            = event(ValueTypeJob, "completed")
	JobFailed               = event(ValueTypeJob, "failed")
	JobTimedOut             = event(ValueTypeJob, "timed_out")
	JobRetriesUpdated       = event(ValueTypeJob, "retries_updated")
	JobCanceled             = event(ValueTypeJob, "canceled")
	JobErrorThrown          = event(ValueTypeJob, "error_thrown")
	JobRecurredAfterBackoff = event(ValueTypeJob, "recurred_after_backoff")
	JobYielded              = event(ValueTypeJob, "yielded")
	JobMigrated             = event(ValueTypeJob, "migrated")
	JobTimeoutUpdated       = event(ValueTypeJob, "timeout_updated")
	JobUpdated              = event(ValueTypeJob, "updated")

	JobBatchActivate  = command(ValueTypeJobBatch, "activate")
	JobBatchActivated = event(ValueTypeJobBatch, "activated")
)

// User task commands and events.
var (
	UserTaskAssign   = command(ValueTypeUserTask, "assign")
	UserTaskClaim    = command(ValueTypeUserTask, "claim")
	UserTaskUpdate   = command(ValueTypeUserTask, "update")
	UserTaskComplete = command(ValueTypeUserTask, "complete")

	UserTaskCreating         = event(ValueTypeUserTask, "creating")
	UserTaskCreated          = event(ValueTypeUserTask, "created")
	UserTaskAssigning        = event(ValueTypeUserTask, "assigning")
	UserTaskClaiming         = event(ValueTypeUserTask, "claiming")
	UserTaskAssigned         = event(ValueTypeUserTask, "assigned")
	UserTaskUpdating         = event(ValueTypeUserTask, "updating")
	UserTaskUpdated          = event(ValueTypeUserTask, "updated")
	UserTaskCompleting       = event(ValueTypeUserTask, "completing")
	UserTaskCompleted        = event(ValueTypeUserTask, "completed")
	UserTaskCanceling        = event(ValueTypeUserTask, "canceling")
	UserTaskCanceled         = event(ValueTypeUserTask, "canceled")
	UserTaskAssignmentDenied = event(ValueTypeUserTask, "assignment_denied")
	UserTaskCompletionDenied = event(ValueTypeUserTask, "completion_denied")
	UserTaskMigrated         = event(ValueTypeUserTask, "migrated")
)

// Variable events.
var (
	VariableCreated  = event(ValueTypeVariable, "created")
	VariableUpdated  = event(ValueTypeVariable, "updated")
	VariableMigrated = event(ValueTypeVariable, "migrated")
)

// Incident commands and events.
var (
	IncidentResolve = command(ValueTypeIncident, "resolve")

	IncidentCreated  = event(ValueTypeIncident, "created")
	IncidentResolved = event(ValueTypeIncident, "resolved")
	IncidentMigrated = event(ValueTypeIncident, "migrated")
)

// Timer commands and events.
var (
	TimerTrigger = command(ValueTypeTimer, "trigger")

	TimerCreated   = event(ValueTypeTimer, "created")
	TimerTriggered = event(ValueTypeTimer, "triggered")
	TimerCanceled  = event(ValueTypeTimer, "canceled")
	TimerMigrated  = event(ValueTypeTimer, "migrated")
)

// Message correlation commands and events.
var (
	MessagePublish = command(ValueTypeMessage, "publish")
	MessageExpire  = command(ValueTypeMessage, "expire")

	MessagePublished = event(ValueTypeMessage, "published")
	MessageExpired   = event(ValueTypeMessage, "expired")

	MessageSubscriptionCreated     = event(ValueTypeMessageSubscription, "created")
	MessageSubscriptionCorrelating = event(ValueTypeMessageSubscription, "correlating")
	MessageSubscriptionCorrelated  = event(ValueTypeMessageSubscription, "correlated")
	MessageSubscriptionRejected    = event(ValueTypeMessageSubscription, "rejected")
	MessageSubscriptionDeleted     = event(ValueTypeMessageSubscription, "deleted")
	MessageSubscriptionMigrated    = event(ValueTypeMessageSubscription, "migrated")

	ProcessMessageSubscriptionCreating   = event(ValueTypeProcessMessageSubscription, "creating")
	ProcessMessageSubscriptionCreated    = event(ValueTypeProcessMessageSubscription, "created")
	ProcessMessageSubscriptionCorrelated = event(ValueTypeProcessMessageSubscription, "correlated")
	ProcessMessageSubscriptionDeleting   = event(ValueTypeProcessMessageSubscription, "deleting")
	ProcessMessageSubscriptionDeleted    = event(ValueTypeProcessMessageSubscription, "deleted")
	ProcessMessageSubscriptionMigrated   = event(ValueTypeProcessMessageSubscription, "migrated")

	MessageStartEventSubscriptionCreated    = event(ValueTypeMessageStartEventSubscription, "created")
	MessageStartEventSubscriptionCorrelated = event(ValueTypeMessageStartEventSubscription, "correlated")
	MessageStartEventSubscriptionDeleted    = event(ValueTypeMessageStartEventSubscription, "deleted")
)

// Signal and escalation events.
var (
	SignalBroadcast   = command(ValueTypeSignal, "broadcast")
	SignalBroadcasted = event(ValueTypeSignal, "broadcasted")

	SignalSubscriptionCreated  = event(ValueTypeSignalSubscription, "created")
	SignalSubscriptionDeleted  = event(ValueTypeSignalSubscription, "deleted")
	SignalSubscriptionMigrated = event(ValueTypeSignalSubscription, "migrated")

	EscalationEscalated    = event(ValueTypeEscalation, "escalated")
	EscalationNotEscalated = event(ValueTypeEscalation, "not_escalated")
)

// Cross-partition command distribution events.
var (
	CommandDistributionAcknowledge = command(ValueTypeCommandDistribution, "acknowledge")

	CommandDistributionStarted      = event(ValueTypeCommandDistribution, "started")
	CommandDistributionDistributing = event(ValueTypeCommandDistribution, "distributing")
	CommandDistributionAcknowledged = event(ValueTypeCommandDistribution, "acknowledged")
	CommandDistributionEnqueued     = event(ValueTypeCommandDistribution, "enqueued")
	CommandDistributionFinished     = event(ValueTypeCommandDistribution, "finished")
)

// Identity and authorization events.
var (
	UserCreate  = command(ValueTypeUser, "create")
	UserCreated = event(ValueTypeUser, "created")
	UserUpdated = event(ValueTypeUser, "updated")
	UserDeleted = event(ValueTypeUser, "deleted")

	GroupCreated       = event(ValueTypeGroup, "created")
	GroupUpdated       = event(ValueTypeGroup, "updated")
	GroupEntityAdded   = event(ValueTypeGroup, "entity_added")
	GroupEntityRemoved = event(ValueTypeGroup, "entity_removed")
	GroupDeleted       = event(ValueTypeGroup, "deleted")

	RoleCreated       = event(ValueTypeRole, "created")
	RoleUpdated       = event(ValueTypeRole, "updated")
	RoleEntityAdded   = event(ValueTypeRole, "entity_added")
	RoleEntityRemoved = event(ValueTypeRole, "entity_removed")
	RoleDeleted       = event(ValueTypeRole, "deleted")

	TenantCreated       = event(ValueTypeTenant, "created")
	TenantUpdated       = event(ValueTypeTenant, "updated")
	TenantEntityAdded   = event(ValueTypeTenant, "entity_added")
	TenantEntityRemoved = event(ValueTypeTenant, "entity_removed")
	TenantDeleted       = event(ValueTypeTenant, "deleted")

	AuthorizationCreate  = command(ValueTypeAuthorization, "create")
	AuthorizationCreated = event(ValueTypeAuthorization, "created")
	AuthorizationUpdated = event(ValueTypeAuthorization, "updated")
	AuthorizationDeleted = event(ValueTypeAuthorization, "deleted")
)

// Engine clock and usage metric events.
var (
	ClockPin      = command(ValueTypeClock, "pin")
	ClockPinned   = event(ValueTypeClock, "pinned")
	ClockResetted = event(ValueTypeClock, "resetted")

	UsageMetricExported = event(ValueTypeUsageMetric, "exported")
)
