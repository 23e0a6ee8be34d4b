package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// reloadMessage is the JSON payload pushed to HMR clients after a rebuild.
type reloadMessage struct {
	Action string `json:"action"`
}

// HMRHub tracks connected hot-reload websocket clients and broadcasts
// reload notices to them.
type HMRHub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHMRHub creates an empty hub.
func NewHMRHub() *HMRHub {
	return &HMRHub{
		upgrader: websocket.Upgrader{
			// The dev server is same-machine tooling; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request to a websocket and keeps the connection in the
// hub until the peer goes away.
func (h *HMRHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade already wrote the error response
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain control/ignored messages; returning removes the client.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes a reload notice to every connected client. Clients whose
// write fails are dropped.
func (h *HMRHub) Broadcast() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(reloadMessage{Action: "reload"}); err != nil {
			h.drop(c)
		}
	}
}

// ClientCount reports connected clients.
func (h *HMRHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// drop closes and forgets a client connection.
func (h *HMRHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}
