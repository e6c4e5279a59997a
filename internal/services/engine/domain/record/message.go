package record

// MessageValue is the payload of message events.
type MessageValue struct {
	Name           string            `json:"name"`
	CorrelationKey string            `json:"correlation_key"`
	TimeToLive     int64             `json:"time_to_live"`
	Deadline       int64             `json:"deadline"`
	MessageID      string            `json:"message_id,omitempty"`
	Variables      map[string]string `json:"variables,omitempty"`
	TenantID       string            `json:"tenant_id,omitempty"`
}

// MessageSubscriptionValue is the payload of subscription events on the
// message partition.
type MessageSubscriptionValue struct {
	ProcessInstanceKey int64             `json:"process_instance_key"`
	ElementInstanceKey int64             `json:"element_instance_key"`
	BpmnProcessID      string            `json:"bpmn_process_id"`
	MessageName        string            `json:"message_name"`
	CorrelationKey     string            `json:"correlation_key"`
	MessageKey         int64             `json:"message_key,omitempty"`
	Interrupting       bool              `json:"interrupting"`
	Variables          map[string]string `json:"variables,omitempty"`
	TenantID           string            `json:"tenant_id,omitempty"`
}

// ProcessMessageSubscriptionValue is the payload of subscription events on
// the process instance partition.
type ProcessMessageSubscriptionValue struct {
	SubscriptionPartitionID int               `json:"subscription_partition_id"`
	ProcessInstanceKey      int64             `json:"process_instance_key"`
	ElementInstanceKey      int64             `json:"element_instance_key"`
	BpmnProcessID           string            `json:"bpmn_process_id"`
	ElementID               string            `json:"element_id"`
	MessageName             string            `json:"message_name"`
	CorrelationKey          string            `json:"correlation_key"`
	MessageKey              int64             `json:"message_key,omitempty"`
	Interrupting            bool              `json:"interrupting"`
	Variables               map[string]string `json:"variables,omitempty"`
	TenantID                string            `json:"tenant_id,omitempty"`
}

// MessageStartEventSubscriptionValue is the payload of message start event
// subscription events.
type MessageStartEventSubscriptionValue struct {
	ProcessDefinitionKey int64             `json:"process_definition_key"`
	BpmnProcessID        string            `json:"bpmn_process_id"`
	StartEventID         string            `json:"start_event_id"`
	MessageName          string            `json:"message_name"`
	MessageKey           int64             `json:"message_key,omitempty"`
	CorrelationKey       string            `json:"correlation_key,omitempty"`
	ProcessInstanceKey   int64             `json:"process_instance_key,omitempty"`
	Variables            map[string]string `json:"variables,omitempty"`
	TenantID             string            `json:"tenant_id,omitempty"`
}

// SignalValue is the payload of signal broadcasts.
type SignalValue struct {
	SignalName string            `json:"signal_name"`
	Variables  map[string]string `json:"variables,omitempty"`
	TenantID   string            `json:"tenant_id,omitempty"`
}

// SignalSubscriptionValue is the payload of signal subscription events. A
// subscription belongs to a catch event instance, or to a process definition
// for signal start events (CatchEventInstanceKey is then zero).
type SignalSubscriptionValue struct {
	SignalName            string `json:"signal_name"`
	ProcessDefinitionKey  int64  `json:"process_definition_key"`
	BpmnProcessID         string `json:"bpmn_process_id"`
	CatchEventID          string `json:"catch_event_id"`
	CatchEventInstanceKey int64  `json:"catch_event_instance_key,omitempty"`
	TenantID              string `json:"tenant_id,omitempty"`
}

// SubscriptionKey is the owning key of the subscription.
func (v SignalSubscriptionValue) SubscriptionKey() int64 {
	if v.CatchEventInstanceKey > 0 {
		return v.CatchEventInstanceKey
	}
	return v.ProcessDefinitionKey
}

// EscalationValue is the payload of escalation events.
type EscalationValue struct {
	ProcessInstanceKey int64  `json:"process_instance_key"`
	EscalationCode     string `json:"escalation_code"`
	ThrowElementID     string `json:"throw_element_id"`
	CatchElementID     string `json:"catch_element_id,omitempty"`
}
