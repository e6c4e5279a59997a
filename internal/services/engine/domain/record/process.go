package record

// BpmnElementType is the BPMN element kind of a process instance record.
type BpmnElementType string

const (
	ElementProcess           BpmnElementType = "PROCESS"
	ElementSubProcess        BpmnElementType = "SUB_PROCESS"
	ElementEventSubProcess   BpmnElementType = "EVENT_SUB_PROCESS"
	ElementStartEvent        BpmnElementType = "START_EVENT"
	ElementIntermediateCatch BpmnElementType = "INTERMEDIATE_CATCH_EVENT"
	ElementBoundaryEvent     BpmnElementType = "BOUNDARY_EVENT"
	ElementEndEvent          BpmnElementType = "END_EVENT"
	ElementServiceTask       BpmnElementType = "SERVICE_TASK"
	ElementUserTask          BpmnElementType = "USER_TASK"
	ElementReceiveTask       BpmnElementType = "RECEIVE_TASK"
	ElementCallActivity      BpmnElementType = "CALL_ACTIVITY"
	ElementExclusiveGateway  BpmnElementType = "EXCLUSIVE_GATEWAY"
	ElementParallelGateway   BpmnElementType = "PARALLEL_GATEWAY"
	ElementInclusiveGateway  BpmnElementType = "INCLUSIVE_GATEWAY"
	ElementMultiInstanceBody BpmnElementType = "MULTI_INSTANCE_BODY"
	ElementSequenceFlow      BpmnElementType = "SEQUENCE_FLOW"
)

// JoinsSequenceFlows reports whether the element merges several incoming
// sequence flows into one activation.
func (t BpmnElementType) JoinsSequenceFlows() bool {
	return t == ElementParallelGateway || t == ElementInclusiveGateway
}

// EnteredBySequenceFlow reports whether activating the element consumes one
// active sequence flow of its flow scope.
func (t BpmnElementType) EnteredBySequenceFlow() bool {
	switch t {
	case ElementProcess, ElementStartEvent, ElementBoundaryEvent, ElementEventSubProcess, ElementSequenceFlow:
		return false
	default:
		return !t.JoinsSequenceFlows()
	}
}

// ProcessValue is the payload of process definition events.
type ProcessValue struct {
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	BpmnProcessID        string `json:"bpmn_process_id"`
	Version              int    `json:"version"`
	ResourceName         string `json:"resource_name,omitempty"`
	Checksum             string `json:"checksum,omitempty"`
	DeploymentKey        int64  `json:"deployment_key,omitempty"`
	TenantID             string `json:"tenant_id,omitempty"`
}

// ProcessInstanceValue is the payload of process instance lifecycle events.
type ProcessInstanceValue struct {
	BpmnProcessID            string          `json:"bpmn_process_id"`
	Version                  int             `json:"version"`
	ProcessDefinitionKey     int64           `json:"process_definition_key"`
	ProcessInstanceKey       int64           `json:"process_instance_key"`
	ElementID                string          `json:"element_id"`
	FlowScopeKey             int64           `json:"flow_scope_key"`
	BpmnElementType          BpmnElementType `json:"bpmn_element_type"`
	BpmnEventType            string          `json:"bpmn_event_type,omitempty"`
	ParentProcessInstanceKey int64           `json:"parent_process_instance_key,omitempty"`
	ParentElementInstanceKey int64           `json:"parent_element_instance_key,omitempty"`
	// TargetElementID and TargetElementType describe the element a taken
	// sequence flow leads to.
	TargetElementID   string          `json:"target_element_id,omitempty"`
	TargetElementType BpmnElementType `json:"target_element_type,omitempty"`
	TenantID          string          `json:"tenant_id,omitempty"`
}

// ProcessEventValue is the payload of process event trigger events.
type ProcessEventValue struct {
	ScopeKey             int64             `json:"scope_key"`
	TargetElementID      string            `json:"target_element_id"`
	ProcessDefinitionKey int64             `json:"process_definition_key"`
	ProcessInstanceKey   int64             `json:"process_instance_key"`
	Variables            map[string]string `json:"variables,omitempty"`
	TenantID             string            `json:"tenant_id,omitempty"`
}

// VariableValue is the payload of variable events. Value holds the JSON
// document of the variable.
type VariableValue struct {
	Name                 string `json:"name"`
	Value                string `json:"value"`
	ScopeKey             int64  `json:"scope_key"`
	ProcessInstanceKey   int64  `json:"process_instance_key"`
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	BpmnProcessID        string `json:"bpmn_process_id"`
	TenantID             string `json:"tenant_id,omitempty"`
}

// IncidentValue is the payload of incident events.
type IncidentValue struct {
	ErrorType            string `json:"error_type"`
	ErrorMessage         string `json:"error_message,omitempty"`
	BpmnProcessID        string `json:"bpmn_process_id"`
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	ProcessInstanceKey   int64  `json:"process_instance_key"`
	ElementID            string `json:"element_id"`
	ElementInstanceKey   int64  `json:"element_instance_key"`
	JobKey               int64  `json:"job_key,omitempty"`
	VariableScopeKey     int64  `json:"variable_scope_key,omitempty"`
	TenantID             string `json:"tenant_id,omitempty"`
}

// TimerValue is the payload of timer events.
type TimerValue struct {
	ElementInstanceKey   int64  `json:"element_instance_key"`
	ProcessInstanceKey   int64  `json:"process_instance_key"`
	ProcessDefinitionKey int64  `json:"process_definition_key"`
	TargetElementID      string `json:"target_element_id"`
	DueDate              int64  `json:"due_date"`
	Repetitions          int    `json:"repetitions"`
	TenantID             string `json:"tenant_id,omitempty"`
}
