package broadcast

import (
	"sync"

	"go-scanner-ws/internal/model"
	"go-scanner-ws/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types pushed to live listeners.
const (
	EventScan           = "scan"
	EventRecordUpdated  = "record_updated"
	EventRecordDeleted  = "record_deleted"
	EventSessionDeleted = "session_deleted"
	EventPing           = "ping"
)

// AllSessions is the channel key aggregate dashboards subscribe to. Events for
// any session are republished here.
var AllSessions = uuid.Nil

// Event is the payload fanned out to listeners. Record is set for scan and
// record_updated, RecordID for record_deleted; session_deleted carries only
// the session id.
type Event struct {
	Type      string                    `json:"type"`
	SessionID uuid.UUID                 `json:"session_id"`
	Record    *model.ScanRecordResponse `json:"record,omitempty"`
	RecordID  *uuid.UUID                `json:"record_id,omitempty"`
}

// listenerQueueSize bounds each listener's event queue. A listener that falls
// this far behind is dropped instead of stalling publishers.
const listenerQueueSize = 32

// Listener is one subscribed connection's event queue.
type Listener struct {
	sessionID uuid.UUID
	ch        chan Event
	closeOnce sync.Once
}

// Events returns the listener's queue. The channel is closed when the
// listener is unsubscribed or dropped.
func (l *Listener) Events() <-chan Event {
	return l.ch
}

// SessionID returns the channel key this listener subscribed under.
func (l *Listener) SessionID() uuid.UUID {
	return l.sessionID
}

func (l *Listener) close() {
	l.closeOnce.Do(func() { close(l.ch) })
}

// Hub is the single-process fan-out of domain events: one listener set per
// session id plus the AllSessions set. Delivery is best-effort with no replay;
// a listener that is gone or saturated is silently dropped so publishing never
// blocks the scan hot path.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uuid.UUID]map[*Listener]struct{}
	log       *logrus.Logger
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[uuid.UUID]map[*Listener]struct{}),
		log:       logger.Get(),
	}
}

// Subscribe registers a new listener under the given session key. Use
// AllSessions to receive every session's events.
func (h *Hub) Subscribe(sessionID uuid.UUID) *Listener {
	l := &Listener{
		sessionID: sessionID,
		ch:        make(chan Event, listenerQueueSize),
	}

	h.mu.Lock()
	set, ok := h.listeners[sessionID]
	if !ok {
		set = make(map[*Listener]struct{})
		h.listeners[sessionID] = set
	}
	set[l] = struct{}{}
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"listeners":  h.ListenerCount(),
	}).Debug("listener subscribed")
	return l
}

// Unsubscribe removes a listener and closes its queue. When the listener was
// the last one for its session key, the key itself is pruned so the registry
// does not grow with dead session ids.
func (h *Hub) Unsubscribe(l *Listener) {
	h.mu.Lock()
	if set, ok := h.listeners[l.sessionID]; ok {
		delete(set, l)
		if len(set) == 0 {
			delete(h.listeners, l.sessionID)
		}
	}
	h.mu.Unlock()

	l.close()
}

// Publish delivers an event to every listener registered under sessionID.
// Delivery to one listener never blocks on another; a listener whose queue is
// full is dropped.
func (h *Hub) Publish(sessionID uuid.UUID, ev Event) {
	var dead []*Listener

	h.mu.RLock()
	for l := range h.listeners[sessionID] {
		select {
		case l.ch <- ev:
		default:
			dead = append(dead, l)
		}
	}
	h.mu.RUnlock()

	for _, l := range dead {
		h.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"event":      ev.Type,
		}).Warn("dropping saturated listener")
		h.Unsubscribe(l)
	}
}

// Broadcast publishes an event to its session's listeners and republishes it
// to the AllSessions channel, so dashboards see every session's activity.
func (h *Hub) Broadcast(ev Event) {
	h.Publish(ev.SessionID, ev)
	h.Publish(AllSessions, ev)
}

// ListenerCount reports the total number of registered listeners.
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, set := range h.listeners {
		total += len(set)
	}
	return total
}

// SessionKeys reports how many session keys currently hold listeners.
func (h *Hub) SessionKeys() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
