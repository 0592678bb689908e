package websocket

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
)

// Message types pushed to clients.
const (
	TypeSeedsSnapshot    = "SEEDS_SNAPSHOT"
	TypePlantsSnapshot   = "PLANTS_SNAPSHOT"
	TypeMemoriesSnapshot = "MEMORIES_SNAPSHOT"
	TypeSettingsSnapshot = "SETTINGS_SNAPSHOT"
	TypeGardenSnapshot   = "GARDEN_SNAPSHOT"
	TypeSessionState     = "SESSION_STATE"
	TypeHarvestReveal    = "HARVEST_REVEAL"
	TypeError            = "ERROR"
)

// Envelope is the wire format of every server-to-client message.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Hub maintains the set of connected clients and fans garden snapshots out to
// all of them. Every client observes the same shared garden; there is no
// per-client targeting.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	garden    *gardenapp.Service
	stopWatch func()
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *zap.Logger
}

// NewHub creates a hub over the garden service.
func NewHub(garden *gardenapp.Service, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
		garden:     garden,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Run starts the hub's event loop and begins relaying garden changes. Blocks
// until Stop is called.
func (h *Hub) Run() {
	h.stopWatch = h.garden.Watch(h.onGardenChange)
	defer h.stopWatch()

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("Hub shutting down")
			h.closeAllClients()
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("Client connected",
				zap.String("connectionID", client.id),
				zap.Int("clients", len(h.clients)))
			client.enqueue(h.gardenSnapshotMessage())
			client.enqueue(client.sessionStateMessage())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.logger.Info("Client disconnected",
					zap.String("connectionID", client.id),
					zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.trySend(message) {
					// Slow consumer; drop the connection rather than block
					// everyone else.
					delete(h.clients, client)
					client.closeSend()
				}
			}
		}
	}
}

// Stop gracefully shuts down the hub.
func (h *Hub) Stop() {
	h.cancel()
}

// onGardenChange relays a changed view to every connected client.
func (h *Hub) onGardenChange(kind gardenapp.ChangeKind) {
	var msg []byte
	switch kind {
	case gardenapp.ChangeSeeds:
		msg = marshalEnvelope(TypeSeedsSnapshot, h.garden.SeedViews())
	case gardenapp.ChangePlants:
		msg = marshalEnvelope(TypePlantsSnapshot, h.garden.PlantViews())
	case gardenapp.ChangeMemories:
		msg = marshalEnvelope(TypeMemoriesSnapshot, h.garden.MemoryViews())
	case gardenapp.ChangeSettings:
		msg = marshalEnvelope(TypeSettingsSnapshot, h.garden.SettingsView())
	default:
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.ctx.Done():
	}
}

func (h *Hub) gardenSnapshotMessage() []byte {
	return marshalEnvelope(TypeGardenSnapshot, h.garden.View())
}

// closeAllClients drops every client. Closing the send channel stops each
// write pump, which closes its connection on the way out.
func (h *Hub) closeAllClients() {
	for client := range h.clients {
		delete(h.clients, client)
		client.closeSend()
	}
}

func marshalEnvelope(messageType string, data interface{}) []byte {
	encoded, err := json.Marshal(data)
	if err != nil {
		// Views are plain structs; a marshal failure is a programming error.
		encoded = []byte("null")
	}
	msg, _ := json.Marshal(Envelope{
		Type:      messageType,
		Data:      encoded,
		Timestamp: time.Now().Unix(),
	})
	return msg
}
