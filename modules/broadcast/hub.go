package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/go-monolith/mono/pkg/types"

	"github.com/jstihl01/pokervitoria/metrics"
)

// Envelope is the realtime wire frame: {"event": name, "data": payload}.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is a connected realtime client. Frames queued for it are read from
// Messages by the connection's writer goroutine.
type Client struct {
	ID     string
	roomID string
	send   chan []byte
}

// Messages returns the client's outbound frame queue. It is closed when the
// client is unregistered or the hub is closed.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub manages connected clients and their broadcast groups.
// Delivery never blocks: a frame for a client whose queue is full is dropped
// for that client only.
type Hub struct {
	clients   map[string]*Client         // clientID -> Client
	rooms     map[string]map[string]bool // roomID -> set of clientIDs
	queueSize int
	logger    types.Logger
	mu        sync.RWMutex
}

// NewHub creates a new Hub with queueSize frames buffered per client.
func NewHub(queueSize int, logger types.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]bool),
		queueSize: queueSize,
		logger:    logger,
	}
}

// Register adds a client to the hub and returns it. Registering an existing
// id returns the existing client.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[clientID]; ok {
		return client
	}
	client := &Client{
		ID:   clientID,
		send: make(chan []byte, h.queueSize),
	}
	h.clients[clientID] = client
	metrics.Connections.Inc()
	h.logger.Debug("Client registered", "clientID", clientID)
	return client
}

// Unregister removes a client from the hub and its room, and closes its queue.
// It reports whether the client was registered.
func (h *Hub) Unregister(clientID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return false
	}
	h.leaveLocked(client)
	delete(h.clients, clientID)
	close(client.send)
	metrics.Connections.Dec()
	h.logger.Debug("Client unregistered", "clientID", clientID)
	return true
}

// JoinRoom moves a client into the broadcast group of roomID.
func (h *Hub) JoinRoom(clientID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	// Leave old room if any
	h.leaveLocked(client)

	client.roomID = roomID
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]bool)
	}
	h.rooms[roomID][clientID] = true
	h.logger.Debug("Client joined room group", "clientID", clientID, "roomID", roomID)
}

// LeaveRoom removes a client from its current broadcast group.
func (h *Hub) LeaveRoom(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok || client.roomID == "" {
		return
	}
	h.logger.Debug("Client left room group", "clientID", clientID, "roomID", client.roomID)
	h.leaveLocked(client)
}

func (h *Hub) leaveLocked(client *Client) {
	if client.roomID == "" {
		return
	}
	if members := h.rooms[client.roomID]; members != nil {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, client.roomID)
		}
	}
	client.roomID = ""
}

// Send queues a frame for a single client. It reports whether the frame was queued.
func (h *Hub) Send(clientID string, env Envelope) bool {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("Failed to marshal frame", "event", env.Event, "error", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return false
	}
	return h.enqueue(client, data)
}

// Broadcast queues a frame for every client in the broadcast group of roomID
// and returns the number of clients it was queued for.
func (h *Hub) Broadcast(roomID string, env Envelope) int {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast frame", "event", env.Event, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for clientID := range h.rooms[roomID] {
		if client, ok := h.clients[clientID]; ok && h.enqueue(client, data) {
			delivered++
		}
	}
	return delivered
}

// enqueue must be called with h.mu held.
func (h *Hub) enqueue(client *Client, data []byte) bool {
	select {
	case client.send <- data:
		return true
	default:
		metrics.FramesDropped.Inc()
		h.logger.Warn("Client queue full, dropping frame", "clientID", client.ID)
		return false
	}
}

// RoomOf returns the broadcast group a client currently belongs to.
func (h *Hub) RoomOf(clientID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[clientID]; ok {
		return client.roomID
	}
	return ""
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unregisters every client and closes their queues.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	metrics.Connections.Sub(float64(len(h.clients)))
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}
