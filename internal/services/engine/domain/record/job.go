package record

// JobKind distinguishes work items created for BPMN elements from those
// created for listeners.
type JobKind string

const (
	JobKindBpmnElement       JobKind = "BPMN_ELEMENT"
	JobKindExecutionListener JobKind = "EXECUTION_LISTENER"
	JobKindTaskListener      JobKind = "TASK_LISTENER"
)

// JobValue is the payload of job events.
type JobValue struct {
	Type                 string            `json:"type"`
	Worker               string            `json:"worker,omitempty"`
	Retries              int               `json:"retries"`
	RetryBackoff         int64             `json:"retry_backoff,omitempty"`
	RecurringTime        int64             `json:"recurring_time,omitempty"`
	Deadline             int64             `json:"deadline,omitempty"`
	Timeout              int64             `json:"timeout,omitempty"`
	ErrorMessage         string            `json:"error_message,omitempty"`
	ErrorCode            string            `json:"error_code,omitempty"`
	CustomHeaders        map[string]string `json:"custom_headers,omitempty"`
	Kind                 JobKind           `json:"kind"`
	ListenerEventType    string            `json:"listener_event_type,omitempty"`
	ElementID            string            `json:"element_id"`
	ElementInstanceKey   int64             `json:"element_instance_key"`
	ProcessInstanceKey   int64             `json:"process_instance_key"`
	ProcessDefinitionKey int64             `json:"process_definition_key"`
	BpmnProcessID        string            `json:"bpmn_process_id"`
	ChangedAttributes    []string          `json:"changed_attributes,omitempty"`
	TenantID             string            `json:"tenant_id,omitempty"`
}

// JobBatchValue is the payload of job batch activation. JobKeys and Jobs are
// parallel slices in activation order.
type JobBatchValue struct {
	Type     string     `json:"type"`
	Worker   string     `json:"worker"`
	Timeout  int64      `json:"timeout"`
	JobKeys  []int64    `json:"job_keys"`
	Jobs     []JobValue `json:"jobs"`
	TenantID string     `json:"tenant_id,omitempty"`
}

// UserTaskValue is the payload of user task events.
type UserTaskValue struct {
	UserTaskKey          int64    `json:"user_task_key"`
	Assignee             string   `json:"assignee,omitempty"`
	CandidateGroups      []string `json:"candidate_groups,omitempty"`
	CandidateUsers       []string `json:"candidate_users,omitempty"`
	DueDate              string   `json:"due_date,omitempty"`
	FollowUpDate         string   `json:"follow_up_date,omitempty"`
	Priority             int      `json:"priority"`
	Action               string   `json:"action,omitempty"`
	ChangedAttributes    []string `json:"changed_attributes,omitempty"`
	ElementID            string   `json:"element_id"`
	ElementInstanceKey   int64    `json:"element_instance_key"`
	ProcessInstanceKey   int64    `json:"process_instance_key"`
	ProcessDefinitionKey int64    `json:"process_definition_key"`
	BpmnProcessID        string   `json:"bpmn_process_id"`
	CreationTimestamp    int64    `json:"creation_timestamp"`
	TenantID             string   `json:"tenant_id,omitempty"`
}

// User task attributes that may appear in ChangedAttributes.
const (
	AttributeAssignee        = "assignee"
	AttributeCandidateGroups = "candidate_groups"
	AttributeCandidateUsers  = "candidate_users"
	AttributeDueDate         = "due_date"
	AttributeFollowUpDate    = "follow_up_date"
	AttributePriority        = "priority"
	AttributeRetries         = "retries"
	AttributeTimeout         = "timeout"
)
