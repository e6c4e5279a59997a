package intent

import (
	"sort"
	"strings"
	"testing"
)

func TestEventIntentsAreEvents(t *testing.T) {
	for _, i := range []Intent{JobCreated, UserTaskCompleted, ElementActivating, CommandDistributionAcknowledged} {
		if !i.IsEvent() {
			t.Fatalf("expected %s to be an event intent", i)
		}
	}
}

func TestCommandIntentsAreNotEvents(t *testing.T) {
	for _, i := range []Intent{JobComplete, UserTaskComplete, ProcessInstanceCancel} {
		if i.IsEvent() {
			t.Fatalf("expected %s not to be an event intent", i)
		}
		def, ok := Lookup(i)
		if !ok || def.Kind != KindCommand {
			t.Fatalf("expected %s to be a known command, got %+v", i, def)
		}
	}
}

func TestUnknownIntent(t *testing.T) {
	unknown := Intent("foo.barred")
	if unknown.IsEvent() {
		t.Fatal("unknown intent must not be an event")
	}
	if _, ok := Lookup(unknown); ok {
		t.Fatal("unknown intent must not resolve")
	}
	if unknown.ValueType() != ValueType("foo") {
		t.Fatalf("expected value type prefix foo, got %s", unknown.ValueType())
	}
}

func TestIntentNamesCarryValueType(t *testing.T) {
	for _, i := range append(Events(), Commands()...) {
		def, ok := Lookup(i)
		if !ok {
			t.Fatalf("expected %s to resolve", i)
		}
		if !strings.HasPrefix(string(i), string(def.ValueType)+".") {
			t.Fatalf("intent %s does not start with its value type %s", i, def.ValueType)
		}
		if i.ValueType() != def.ValueType {
			t.Fatalf("intent %s value type mismatch", i)
		}
	}
}

func TestEventsSortedAndDisjointFromCommands(t *testing.T) {
	events := Events()
	if len(events) == 0 {
		t.Fatal("expected event intents")
	}
	if !sort.SliceIsSorted(events, func(a, b int) bool { return events[a] < events[b] }) {
		t.Fatal("expected events sorted by name")
	}
	seen := make(map[Intent]struct{}, len(events))
	for _, i := range events {
		seen[i] = struct{}{}
	}
	for _, c := range Commands() {
		if _, ok := seen[c]; ok {
			t.Fatalf("intent %s listed as both command and event", c)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindEvent.String() != "event" || KindCommand.String() != "command" || KindUnspecified.String() != "unspecified" {
		t.Fatal("unexpected kind names")
	}
}
