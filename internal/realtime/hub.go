package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte
}

// Hub tracks connected chat clients and the project rooms they joined.
// Fanout is per room; a slow client is skipped, never blocked on.
type Hub struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client // projectID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// JoinRoom adds the client to a project room. Joining twice is a no-op.
func (h *Hub) JoinRoom(projectID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[projectID]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[projectID] = room
	}
	room[client.ID] = client
	log.Printf("hub: client %s joined project-%s", client.ID, projectID)
}

// SendToRoom delivers a payload to every member of a project room.
func (h *Hub) SendToRoom(projectID string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("hub: marshal room payload: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[projectID] {
		select {
		case client.Send <- payload:
		default:
			// full buffer, skip
		}
	}
}

// SendToClient delivers a payload to a single connection, used for replies
// like messages_loaded.
func (h *Hub) SendToClient(client *Client, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("hub: marshal client payload: %v", err)
		return
	}
	select {
	case client.Send <- payload:
	default:
	}
}

// RoomSize reports current membership of a project room.
func (h *Hub) RoomSize(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("hub: client registered: %s (user %s)", client.ID, client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
			}
			for projectID, room := range h.rooms {
				delete(room, client.ID)
				if len(room) == 0 {
					delete(h.rooms, projectID)
				}
			}
			h.mu.Unlock()
			log.Printf("hub: client unregistered: %s", client.ID)
		}
	}
}
