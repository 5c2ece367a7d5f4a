package workspace

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is the envelope broadcast to workspace subscribers.
type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans workspace events out to connected websocket clients. It
// satisfies the Notifier interface of the stateful services.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

// Register adds a connection until it fails a write.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	log.Printf("[workspace] event subscriber connected, total=%d", h.Count())
}

// Unregister drops a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Count reports the number of subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Publish broadcasts an event to every subscriber. Dead connections are
// pruned on write failure.
func (h *Hub) Publish(event string, payload any) {
	envelope := Event{
		Type:      event,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(envelope); err != nil {
			log.Printf("[workspace] dropping event subscriber: %v", err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}
