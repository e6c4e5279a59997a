package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/platform/storage/pebblestore"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutMessage(m state.Message) error {
	if err := s.messages.Put(s.messages.Key().Int64(m.Key), m); err != nil {
		return err
	}
	return mark(s.messageDeadlines, s.messageDeadlines.Key().Int64(m.Value.Deadline).Int64(m.Key))
}

func (s *State) GetMessage(key int64) (state.Message, error) {
	return get(s.messages, s.messages.Key().Int64(key))
}

// DeleteMessage removes the message, its deadline entry and its correlation
// marks.
func (s *State) DeleteMessage(key int64) error {
	m, err := s.GetMessage(key)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.messageDeadlines.Delete(s.messageDeadlines.Key().Int64(m.Value.Deadline).Int64(key)); err != nil {
		return err
	}
	if err := s.messageCorrelated.DeletePrefix(s.messageCorrelated.Key().Int64(key)); err != nil {
		return err
	}
	return s.messages.Delete(s.messages.Key().Int64(key))
}

func (s *State) MarkCorrelated(messageKey int64, bpmnProcessID string) error {
	return mark(s.messageCorrelated, s.messageCorrelated.Key().Int64(messageKey).Text(bpmnProcessID))
}

func (s *State) IsCorrelated(messageKey int64, bpmnProcessID string) (bool, error) {
	return s.messageCorrelated.Exists(s.messageCorrelated.Key().Int64(messageKey).Text(bpmnProcessID))
}

func (s *State) RemoveCorrelation(messageKey int64, bpmnProcessID string) error {
	return s.messageCorrelated.Delete(s.messageCorrelated.Key().Int64(messageKey).Text(bpmnProcessID))
}

type activeCorrelation struct {
	BpmnProcessID  string `json:"bpmn_process_id"`
	CorrelationKey string `json:"correlation_key"`
}

func (s *State) SetActiveProcessInstance(bpmnProcessID, correlationKey string, processInstanceKey int64) error {
	if err := s.messageActive.Put(s.messageActive.Key().Text(bpmnProcessID).Text(correlationKey), processInstanceKey); err != nil {
		return err
	}
	return s.messageActiveByPI.Put(s.messageActiveByPI.Key().Int64(processInstanceKey), activeCorrelation{
		BpmnProcessID:  bpmnProcessID,
		CorrelationKey: correlationKey,
	})
}

func (s *State) ActiveProcessInstance(bpmnProcessID, correlationKey string) (int64, error) {
	return get(s.messageActive, s.messageActive.Key().Text(bpmnProcessID).Text(correlationKey))
}

func (s *State) RemoveActiveProcessInstance(processInstanceKey int64) error {
	byPI := s.messageActiveByPI.Key().Int64(processInstanceKey)
	active, err := s.messageActiveByPI.Get(byPI)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.messageActive.Delete(s.messageActive.Key().Text(active.BpmnProcessID).Text(active.CorrelationKey)); err != nil {
		return err
	}
	return s.messageActiveByPI.Delete(byPI)
}
