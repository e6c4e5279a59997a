package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutMessageSubscription(sub state.MessageSubscription) error {
	key := s.messageSubs.Key().Int64(sub.Value.ElementInstanceKey).Text(sub.Value.MessageName)
	return s.messageSubs.Put(key, sub)
}

func (s *State) GetMessageSubscription(elementInstanceKey int64, messageName string) (state.MessageSubscription, error) {
	return get(s.messageSubs, s.messageSubs.Key().Int64(elementInstanceKey).Text(messageName))
}

func (s *State) DeleteMessageSubscription(elementInstanceKey int64, messageName string) error {
	return s.messageSubs.Delete(s.messageSubs.Key().Int64(elementInstanceKey).Text(messageName))
}

func (s *State) PutProcessMessageSubscription(sub state.ProcessMessageSubscription) error {
	key := s.processMessageSubs.Key().Int64(sub.Value.ElementInstanceKey).Text(sub.Value.MessageName)
	return s.processMessageSubs.Put(key, sub)
}

func (s *State) GetProcessMessageSubscription(elementInstanceKey int64, messageName string) (state.ProcessMessageSubscription, error) {
	return get(s.processMessageSubs, s.processMessageSubs.Key().Int64(elementInstanceKey).Text(messageName))
}

func (s *State) DeleteProcessMessageSubscription(elementInstanceKey int64, messageName string) error {
	return s.processMessageSubs.Delete(s.processMessageSubs.Key().Int64(elementInstanceKey).Text(messageName))
}

func (s *State) PutStartEventSubscription(sub state.MessageStartEventSubscription) error {
	key := s.startEventSubs.Key().Int64(sub.Value.ProcessDefinitionKey).Text(sub.Value.MessageName)
	return s.startEventSubs.Put(key, sub)
}

func (s *State) GetStartEventSubscription(processDefinitionKey int64, messageName string) (state.MessageStartEventSubscription, error) {
	return get(s.startEventSubs, s.startEventSubs.Key().Int64(processDefinitionKey).Text(messageName))
}

func (s *State) DeleteStartEventSubscription(processDefinitionKey int64, messageName string) error {
	return s.startEventSubs.Delete(s.startEventSubs.Key().Int64(processDefinitionKey).Text(messageName))
}

func (s *State) PutSignalSubscription(sub state.SignalSubscription) error {
	key := s.signalSubs.Key().Text(sub.Value.SignalName).Int64(sub.Value.SubscriptionKey())
	return s.signalSubs.Put(key, sub)
}

func (s *State) GetSignalSubscription(signalName string, subscriptionKey int64) (state.SignalSubscription, error) {
	return get(s.signalSubs, s.signalSubs.Key().Text(signalName).Int64(subscriptionKey))
}

func (s *State) DeleteSignalSubscription(signalName string, subscriptionKey int64) error {
	return s.signalSubs.Delete(s.signalSubs.Key().Text(signalName).Int64(subscriptionKey))
}
