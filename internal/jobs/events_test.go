package jobs

import "testing"

// TestEventBusSince verifies incremental event reads by sequence.
func TestEventBusSince(t *testing.T) {
	bus := NewEventBus(3)
	bus.Publish(Event{Type: EventTypeStatus, Message: "1"})
	bus.Publish(Event{Type: EventTypeStatus, Message: "2"})
	bus.Publish(Event{Type: EventTypeStatus, Message: "3"})

	events := bus.Since(1)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Seq != 2 || events[1].Seq != 3 {
		t.Fatalf("unexpected seqs: %+v", events)
	}
}

// TestEventBusCapsHistory verifies buffer limit trimming behavior.
func TestEventBusCapsHistory(t *testing.T) {
	bus := NewEventBus(2)
	bus.Publish(Event{Message: "1"})
	bus.Publish(Event{Message: "2"})
	bus.Publish(Event{Type: EventTypeProgress, Progress: 3, Message: "3"})

	events := bus.Since(0)
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Message != "2" || events[1].Message != "3" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

// TestEventBusLastProgress checks the latest progress lookup skips other events.
func TestEventBusLastProgress(t *testing.T) {
	bus := NewEventBus(10)
	if got := bus.LastProgress(); got != 0 {
		t.Fatalf("empty bus progress = %d, want 0", got)
	}
	bus.Publish(Event{Type: EventTypeProgress, Progress: 40})
	bus.Publish(Event{Type: EventTypeStatus, Message: "working"})

	if got := bus.LastProgress(); got != 40 {
		t.Fatalf("progress = %d, want 40", got)
	}
}
