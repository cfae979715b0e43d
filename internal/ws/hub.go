package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"BandDesk/entity"
)

// Event represents a WebSocket event sent to administrator clients.
type Event struct {
	Type string      `json:"type"` // "snapshot"
	Data interface{} `json:"data"`
}

// Snapshot is the partitioned agreement picture pushed on every store change.
// It always carries the full sets; clients replace their local view wholesale.
type Snapshot struct {
	Pending   []entity.Agreement `json:"pending"`
	Completed []entity.Agreement `json:"completed"`
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSnapshot sends the current partitioned agreement sets to all
// connected administrator clients.
func (h *Hub) BroadcastSnapshot(pending, completed []entity.Agreement) {
	h.broadcast <- &Event{
		Type: "snapshot",
		Data: Snapshot{
			Pending:   pending,
			Completed: completed,
		},
	}
}
