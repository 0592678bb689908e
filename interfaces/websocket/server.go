package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
)

// The garden is shared by a single trusted pair of users; the origin check is
// deliberately open.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests into garden websocket sessions.
type Handler struct {
	hub    *Hub
	garden *gardenapp.Service
	logger *zap.Logger
}

// NewHandler creates a websocket handler.
func NewHandler(hub *Hub, garden *gardenapp.Service, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, garden: garden, logger: logger}
}

// ServeHTTP upgrades the connection and starts a fresh session for it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, h.garden, h.logger)
	client.Start()
}
