package hub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event names carried over the live channel. Payloads hold ids only; clients
// re-fetch details through the REST endpoints, which stay the source of truth.
const (
	EventNotification       = "notification"
	EventSubscriptionUpdate = "subscriptionUpdate"
)

// Event is a single advisory message pushed to a connected client.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub is the registry of currently-connected clients, keyed by user id. A
// user may hold several connections (one per device/tab); each gets its own
// buffered channel so deletion stays O(1). Adding or removing a connection
// grabs the write lock, delivery grabs the read lock.
type Hub struct {
	mu          sync.RWMutex
	connections map[uint]map[string]chan Event
	log         *logrus.Logger
}

// New creates an empty Hub.
func New(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		connections: make(map[uint]map[string]chan Event),
		log:         log,
	}
}

// Register adds a connection for the user and returns its event channel plus
// the connection id the caller must pass back to Unregister.
func (h *Hub) Register(userID uint) (<-chan Event, string) {
	connID := uuid.New().String()
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[userID]; !ok {
		h.connections[userID] = make(map[string]chan Event)
	}
	h.connections[userID][connID] = ch

	return ch, connID
}

// Unregister removes a connection. When a user's last connection goes away
// the top-level entry is removed as well. Safe to call twice.
func (h *Hub) Unregister(userID uint, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userConns, ok := h.connections[userID]
	if !ok {
		return
	}
	if ch, ok := userConns[connID]; ok {
		close(ch)
		delete(userConns, connID)
	}
	if len(userConns) == 0 {
		delete(h.connections, userID)
	}
}

// NotifyUser delivers an event to every active connection of the user.
// Delivery is best-effort: no connection means the event is dropped, and a
// connection whose buffer is full is skipped rather than blocked on. Clients
// reconcile by re-querying the REST endpoints.
func (h *Hub) NotifyUser(userID uint, name string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userConns, ok := h.connections[userID]
	if !ok {
		return
	}
	for connID, ch := range userConns {
		select {
		case ch <- Event{Name: name, Payload: payload}:
		default:
			h.log.WithFields(logrus.Fields{
				"user_id": userID,
				"conn_id": connID,
				"event":   name,
			}).Warn("push buffer full, dropping event")
		}
	}
}

// ActiveConnections returns the total number of registered connections.
func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, userConns := range h.connections {
		count += len(userConns)
	}
	return count
}

// IsConnected reports whether the user has at least one active connection.
func (h *Hub) IsConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.connections[userID]) > 0
}
