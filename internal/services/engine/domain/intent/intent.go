package intent

import (
	"sort"
	"strings"
)

// ValueType identifies the domain concept a record is about.
type ValueType string

const (
	ValueTypeProcess                       ValueType = "process"
	ValueTypeProcessInstance               ValueType = "process_instance"
	ValueTypeProcessEvent                  ValueType = "process_event"
	ValueTypeJob                           ValueType = "job"
	ValueTypeJobBatch                      ValueType = "job_batch"
	ValueTypeUserTask                      ValueType = "user_task"
	ValueTypeVariable                      ValueType = "variable"
	ValueTypeIncident                      ValueType = "incident"
	ValueTypeTimer                         ValueType = "timer"
	ValueTypeMessage                       ValueType = "message"
	ValueTypeMessageSubscription           ValueType = "message_subscription"
	ValueTypeProcessMessageSubscription    ValueType = "process_message_subscription"
	ValueTypeMessageStartEventSubscription ValueType = "message_start_event_subscription"
	ValueTypeSignal                        ValueType = "signal"
	ValueTypeSignalSubscription            ValueType = "signal_subscription"
	ValueTypeEscalation                    ValueType = "escalation"
	ValueTypeCommandDistribution           ValueType = "command_distribution"
	ValueTypeUser                          ValueType = "user"
	ValueTypeGroup                         ValueType = "group"
	ValueTypeRole                          ValueType = "role"
	ValueTypeTenant                        ValueType = "tenant"
	ValueTypeAuthorization                 ValueType = "authorization"
	ValueTypeClock                         ValueType = "clock"
	ValueTypeUsageMetric                   ValueType = "usage_metric"
)

// Kind separates requests from facts.
type Kind uint8

const (
	KindUnspecified Kind = iota
	KindCommand
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindEvent:
		return "event"
	default:
		return "unspecified"
	}
}

// Intent identifies one kind of record, formatted "<value_type>.<name>".
type Intent string

// Definition is the closed-table entry for one intent.
type Definition struct {
	Intent    Intent
	ValueType ValueType
	Kind      Kind
}

// String returns the intent name.
func (i Intent) String() string {
	return string(i)
}

// IsEvent reports whether i is a known event intent.
func (i Intent) IsEvent() bool {
	def, ok := definitions[i]
	return ok && def.Kind == KindEvent
}

// ValueType returns the value type prefix of i, even for unknown intents.
func (i Intent) ValueType() ValueType {
	if def, ok := definitions[i]; ok {
		return def.ValueType
	}
	prefix, _, _ := strings.Cut(string(i), ".")
	return ValueType(prefix)
}

// Lookup returns the definition of i when it is part of the closed table.
func Lookup(i Intent) (Definition, bool) {
	def, ok := definitions[i]
	return def, ok
}

// Events returns every event intent, sorted by name.
func Events() []Intent {
	return sorted(KindEvent)
}

// Commands returns every command intent, sorted by name.
func Commands() []Intent {
	return sorted(KindCommand)
}

func sorted(kind Kind) []Intent {
	out := make([]Intent, 0, len(definitions))
	for i, def := range definitions {
		if def.Kind == kind {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

var definitions = map[Intent]Definition{}

func event(vt ValueType, name string) Intent {
	return define(vt, name, KindEvent)
}

func command(vt ValueType, name string) Intent {
	return define(vt, name, KindCommand)
}

func define(vt ValueType, name string, kind Kind) Intent {
	i := Intent(string(vt) + "." + name)
	if _, exists := definitions[i]; exists {
		panic("intent defined twice: " + string(i))
	}
	definitions[i] = Definition{Intent: i, ValueType: vt, Kind: kind}
	return i
}
