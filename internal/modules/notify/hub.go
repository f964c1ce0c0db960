package notify

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a connection with a write mutex; gorilla conns allow only one
// concurrent writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(message interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(message)
}

// Hub tracks one live websocket connection per user for booking status
// pushes. A reconnect replaces the previous connection.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*client),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[userID]; exists {
		_ = old.conn.Close()
	}

	h.clients[userID] = &client{conn: conn}
}

// UnregisterConn drops the user's entry only if conn is still the one
// registered. A read loop cleaning up after a reconnect must not tear down
// the replacement connection.
func (h *Hub) UnregisterConn(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cl, exists := h.clients[userID]; exists && cl.conn == conn {
		_ = cl.conn.Close()
		delete(h.clients, userID)
	}
}

// SendToUser pushes one JSON message. Returns false when the user is
// offline or the write failed; a failed connection is dropped.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mutex.RLock()
	cl, exists := h.clients[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}

	if err := cl.writeJSON(message); err != nil {
		h.UnregisterConn(userID, cl.conn)
		return false
	}

	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, cl := range h.clients {
		_ = cl.conn.Close()
		delete(h.clients, userID)
	}
}
