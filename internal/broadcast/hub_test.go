package broadcast

import (
	"testing"

	"github.com/google/uuid"
)

func drain(l *Listener) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-l.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestPublishIsScopedToSession(t *testing.T) {
	hub := NewHub()
	sessionA := uuid.New()
	sessionB := uuid.New()

	listenerA := hub.Subscribe(sessionA)
	listenerB := hub.Subscribe(sessionB)
	defer hub.Unsubscribe(listenerA)
	defer hub.Unsubscribe(listenerB)

	hub.Publish(sessionA, Event{Type: EventScan, SessionID: sessionA})

	if got := drain(listenerA); len(got) != 1 {
		t.Errorf("session A listener got %d events, want 1", len(got))
	}
	if got := drain(listenerB); len(got) != 0 {
		t.Errorf("session B listener got %d events, want 0", len(got))
	}
}

func TestBroadcastReachesAllSessionsChannel(t *testing.T) {
	hub := NewHub()
	sessionID := uuid.New()

	scoped := hub.Subscribe(sessionID)
	all := hub.Subscribe(AllSessions)
	defer hub.Unsubscribe(scoped)
	defer hub.Unsubscribe(all)

	hub.Broadcast(Event{Type: EventScan, SessionID: sessionID})

	if got := drain(scoped); len(got) != 1 {
		t.Errorf("scoped listener got %d events, want 1", len(got))
	}
	if got := drain(all); len(got) != 1 {
		t.Errorf("all-sessions listener got %d events, want 1", len(got))
	}
}

func TestSaturatedListenerIsDropped(t *testing.T) {
	hub := NewHub()
	sessionID := uuid.New()
	listener := hub.Subscribe(sessionID)

	for i := 0; i < listenerQueueSize+1; i++ {
		hub.Publish(sessionID, Event{Type: EventScan, SessionID: sessionID})
	}

	if hub.ListenerCount() != 0 {
		t.Errorf("listener count = %d, want 0 after saturation drop", hub.ListenerCount())
	}

	// The queue still holds what was delivered before the drop, then closes.
	got := drain(listener)
	if len(got) != listenerQueueSize {
		t.Errorf("drained %d events, want %d", len(got), listenerQueueSize)
	}
	if _, ok := <-listener.Events(); ok {
		t.Error("dropped listener's channel not closed")
	}
}

func TestUnsubscribePrunesSessionKeys(t *testing.T) {
	hub := NewHub()
	sessionID := uuid.New()

	first := hub.Subscribe(sessionID)
	second := hub.Subscribe(sessionID)
	if hub.SessionKeys() != 1 {
		t.Fatalf("session keys = %d, want 1", hub.SessionKeys())
	}

	hub.Unsubscribe(first)
	if hub.SessionKeys() != 1 {
		t.Errorf("session keys after first unsubscribe = %d, want 1", hub.SessionKeys())
	}

	hub.Unsubscribe(second)
	if hub.SessionKeys() != 0 {
		t.Errorf("session keys after last unsubscribe = %d, want 0", hub.SessionKeys())
	}

	// Publishing to an empty registry is a no-op, not a panic.
	hub.Publish(sessionID, Event{Type: EventScan, SessionID: sessionID})
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	listener := hub.Subscribe(AllSessions)

	hub.Unsubscribe(listener)
	hub.Unsubscribe(listener)

	if _, ok := <-listener.Events(); ok {
		t.Error("channel should be closed after unsubscribe")
	}
}
