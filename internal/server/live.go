package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveUpdate is one frame of exercise state pushed to connected clients. The
// UI overlays the cursor and score on top of the MJPEG preview.
type LiveUpdate struct {
	Game      string `json:"game"`
	Pinching  bool   `json:"pinching"`
	CursorX   int    `json:"cursor_x"`
	CursorY   int    `json:"cursor_y"`
	HasCursor bool   `json:"has_cursor"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"`
}

// LiveHandler broadcasts exercise state over WebSocket. The capture pipeline
// pushes updates with Publish; the handler fans them out. With no clients
// connected Publish is nearly free.
type LiveHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a LiveHandler with no clients.
func NewLiveHandler() *LiveHandler {
	return &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends an update to every connected client. Write failures drop the
// client; its read loop will observe the closed connection and unregister.
func (h *LiveHandler) Publish(update LiveUpdate) {
	if update.Timestamp == 0 {
		update.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(update); err != nil {
			conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *LiveHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
