package state

// ProcessState stores deployed process definitions.
type ProcessState interface {
	PutProcess(p Process) error
	GetProcess(key int64) (Process, error)
	DeleteProcess(key int64) error
	// LatestProcessKey returns the definition key of the highest deployed
	// version of bpmnProcessID.
	LatestProcessKey(bpmnProcessID string) (int64, error)
}

// ElementInstanceState stores the process instance tree.
type ElementInstanceState interface {
	GetInstance(key int64) (ElementInstance, error)
	// PutInstance stores the instance and maintains the parent to child index.
	PutInstance(e ElementInstance) error
	DeleteInstance(key int64) error
	Children(parentKey int64) ([]int64, error)

	AddTakenSequenceFlow(flowScopeKey int64, gatewayID, flowID string) error
	TakenSequenceFlows(flowScopeKey int64, gatewayID string) ([]string, error)
	ClearTakenSequenceFlows(flowScopeKey int64, gatewayID string) error
}

// VariableState stores variable scopes and their documents.
type VariableState interface {
	CreateScope(scopeKey, parentScopeKey int64) error
	ParentScope(scopeKey int64) (int64, error)
	// RemoveScope deletes the scope and every variable in it.
	RemoveScope(scopeKey int64) error
	SetVariable(v Variable) error
	GetVariable(scopeKey int64, name string) (Variable, error)
	Variables(scopeKey int64) ([]Variable, error)
}

// EventScopeState stores event scopes and queued triggers.
type EventScopeState interface {
	PutEventScope(s EventScope) error
	GetEventScope(key int64) (EventScope, error)
	// DeleteEventScope deletes the scope and its queued triggers.
	DeleteEventScope(key int64) error
	AddTrigger(t EventTrigger) error
	DeleteTrigger(scopeKey, eventKey int64) error
	Triggers(scopeKey int64) ([]EventTrigger, error)
}

// JobState stores jobs and their scheduling indices.
type JobState interface {
	PutJob(j Job) error
	GetJob(key int64) (Job, error)
	DeleteJob(key int64) error

	AddActivatable(jobType string, key int64) error
	RemoveActivatable(jobType string, key int64) error
	AddDeadline(deadline, key int64) error
	RemoveDeadline(deadline, key int64) error
	AddBackoff(due, key int64) error
	RemoveBackoff(due, key int64) error
}

// UserTaskState stores user tasks.
type UserTaskState interface {
	PutUserTask(u UserTask) error
	GetUserTask(key int64) (UserTask, error)
	DeleteUserTask(key int64) error
}

// IncidentState stores incidents indexed by element instance and job.
type IncidentState interface {
	PutIncident(i Incident) error
	GetIncident(key int64) (Incident, error)
	DeleteIncident(key int64) error
	IncidentForElement(elementInstanceKey int64) (int64, error)
	IncidentForJob(jobKey int64) (int64, error)
}

// TimerState stores timers indexed by due date and element instance.
type TimerState interface {
	PutTimer(t Timer) error
	GetTimer(key int64) (Timer, error)
	DeleteTimer(key int64) error
	TimersForElement(elementInstanceKey int64) ([]int64, error)
}

// MessageState stores buffered messages and correlation bookkeeping.
type MessageState interface {
	PutMessage(m Message) error
	GetMessage(key int64) (Message, error)
	DeleteMessage(key int64) error
	MarkCorrelated(messageKey int64, bpmnProcessID string) error
	IsCorrelated(messageKey int64, bpmnProcessID string) (bool, error)
	RemoveCorrelation(messageKey int64, bpmnProcessID string) error
	// SetActiveProcessInstance records that a process instance started by a
	// message holds the correlation key of its process.
	SetActiveProcessInstance(bpmnProcessID, correlationKey string, processInstanceKey int64) error
	ActiveProcessInstance(bpmnProcessID, correlationKey string) (int64, error)
	// RemoveActiveProcessInstance releases the correlation key held by
	// processInstanceKey, if any.
	RemoveActiveProcessInstance(processInstanceKey int64) error
}

// MessageSubscriptionState stores message partition subscriptions.
type MessageSubscriptionState interface {
	PutMessageSubscription(s MessageSubscription) error
	GetMessageSubscription(elementInstanceKey int64, messageName string) (MessageSubscription, error)
	DeleteMessageSubscription(elementInstanceKey int64, messageName string) error
}

// ProcessMessageSubscriptionState stores process side subscriptions.
type ProcessMessageSubscriptionState interface {
	PutProcessMessageSubscription(s ProcessMessageSubscription) error
	GetProcessMessageSubscription(elementInstanceKey int64, messageName string) (ProcessMessageSubscription, error)
	DeleteProcessMessageSubscription(elementInstanceKey int64, messageName string) error
}

// MessageStartEventSubscriptionState stores message start event subscriptions.
type MessageStartEventSubscriptionState interface {
	PutStartEventSubscription(s MessageStartEventSubscription) error
	GetStartEventSubscription(processDefinitionKey int64, messageName string) (MessageStartEventSubscription, error)
	DeleteStartEventSubscription(processDefinitionKey int64, messageName string) error
}

// SignalSubscriptionState stores signal subscriptions.
type SignalSubscriptionState interface {
	PutSignalSubscription(s SignalSubscription) error
	GetSignalSubscription(signalName string, subscriptionKey int64) (SignalSubscription, error)
	DeleteSignalSubscription(signalName string, subscriptionKey int64) error
}

// DistributionState stores cross-partition distributions.
type DistributionState interface {
	PutDistribution(d Distribution) error
	GetDistribution(key int64) (Distribution, error)
	DeleteDistribution(key int64) error
	AddPending(key int64, partitionID int) error
	RemovePending(key int64, partitionID int) error
	PendingPartitions(key int64) ([]int, error)
	Enqueue(queueID string, key int64, partitionID int) error
	Dequeue(queueID string, key int64, partitionID int) error
}

// UserState stores users by username.
type UserState interface {
	PutUser(u User) error
	GetUser(username string) (User, error)
	DeleteUser(username string) error
}

// MembershipState stores memberships in both directions. Every call updates
// the entity side and the relation side together.
type MembershipState interface {
	AddMember(relation Relation, relationID string, member Member) error
	RemoveMember(relation Relation, relationID string, member Member) error
	Members(relation Relation, relationID string) ([]Member, error)
	// Memberships lists the relation ids of the given kind that member
	// belongs to.
	Memberships(member Member, relation Relation) ([]string, error)
}

// GroupState stores groups by id.
type GroupState interface {
	PutGroup(g Group) error
	GetGroup(id string) (Group, error)
	DeleteGroup(id string) error
}

// RoleState stores roles by id.
type RoleState interface {
	PutRole(r Role) error
	GetRole(id string) (Role, error)
	DeleteRole(id string) error
}

// TenantState stores tenants by id.
type TenantState interface {
	PutTenant(t Tenant) error
	GetTenant(id string) (Tenant, error)
	DeleteTenant(id string) error
}

// AuthorizationState stores authorizations indexed by owner.
type AuthorizationState interface {
	PutAuthorization(a Authorization) error
	GetAuthorization(key int64) (Authorization, error)
	DeleteAuthorization(key int64) error
	OwnerAuthorizations(ownerType string, ownerID string) ([]int64, error)
}

// ClockState stores the engine clock override.
type ClockState interface {
	PinClock(time int64) error
	ResetClock() error
	GetClock() (Clock, error)
}

// UsageMetricState stores the active usage bucket.
type UsageMetricState interface {
	GetUsageBucket() (UsageBucket, error)
	PutUsageBucket(b UsageBucket) error
}

// Partitions is every contract together, as implemented by one partition's
// store.
type Partitions interface {
	ProcessState
	ElementInstanceState
	VariableState
	EventScopeState
	JobState
	UserTaskState
	IncidentState
	TimerState
	MessageState
	MessageSubscriptionState
	ProcessMessageSubscriptionState
	MessageStartEventSubscriptionState
	SignalSubscriptionState
	DistributionState
	UserState
	MembershipState
	GroupState
	RoleState
	TenantState
	AuthorizationState
	ClockState
	UsageMetricState
}
