package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/application/session"
	"gardend/domain/garden"
	pkgerrors "gardend/pkg/errors"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// Send buffer size
	sendBufferSize = 64
)

// ClientMessage is the wire format of every client-to-server message. The
// commands drive the per-connection session state machine and the garden
// mutations.
type ClientMessage struct {
	Type    string  `json:"type"`
	SeedID  string  `json:"seedId,omitempty"`
	PlantID string  `json:"plantId,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Season  string  `json:"season,omitempty"`
	Night   bool    `json:"night,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
}

// Client message types.
const (
	cmdSelectSeed     = "select_seed"
	cmdClearSelection = "clear_selection"
	cmdSetMode        = "set_mode"
	cmdSetSeason      = "set_season"
	cmdSetNight       = "set_night"
	cmdPlace          = "place"
	cmdTapPlant       = "tap_plant"
	cmdDismissReveal  = "dismiss_reveal"
)

// Client represents one websocket connection and its ephemeral session. The
// session resets to defaults on reconnect because it lives and dies with the
// connection.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	garden  *gardenapp.Service
	session *session.Session
	logger  *zap.Logger

	sendMu sync.Mutex
	closed bool
}

// NewClient creates a client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, garden *gardenapp.Service, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:      id,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		garden:  garden,
		session: session.New(),
		logger:  logger.With(zap.String("connectionID", id)),
	}
}

// Start registers with the hub and begins the read and write pumps.
func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

// enqueue delivers a message to this client without blocking the caller. The
// read pump keeps calling enqueue after the hub has dropped the client, so
// delivery and closeSend serialize on sendMu; a send on the closed channel
// would take the whole process down.
func (c *Client) enqueue(message []byte) {
	c.trySend(message)
}

// trySend attempts a non-blocking delivery and reports whether the message was
// buffered. Dropped or closed clients report false.
func (c *Client) trySend(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel, stopping the write pump, which closes the
// connection on its way out. Safe to call more than once.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError(pkgerrors.NewValidationError("malformed message"))
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage runs one session command. Every command is answered with the
// resulting session state so the client can render it without guessing.
func (c *Client) handleMessage(msg ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch msg.Type {
	case cmdSelectSeed:
		err = c.session.SelectSeed(msg.SeedID)

	case cmdClearSelection:
		c.session.ClearSelection()

	case cmdSetMode:
		err = c.session.SetMode(session.Mode(msg.Mode))

	case cmdSetSeason:
		err = c.session.SetSeason(session.Season(msg.Season))

	case cmdSetNight:
		c.session.SetNight(msg.Night)

	case cmdPlace:
		err = c.handlePlace(ctx, garden.Position{X: msg.X, Y: msg.Y})

	case cmdTapPlant:
		err = c.handleTapPlant(ctx, msg.PlantID)

	case cmdDismissReveal:
		c.session.DismissReveal()

	default:
		err = pkgerrors.NewValidationError("unknown message type " + msg.Type)
	}

	if err != nil {
		c.sendError(err)
	}
	c.enqueue(c.sessionStateMessage())
}

// handlePlace consumes the pending seed at the clicked point. A click in the
// sky is a no-op that leaves placement pending; anywhere else the position is
// clamped into the plantable rectangle by the service.
func (c *Client) handlePlace(ctx context.Context, position garden.Position) error {
	seedID, pending := c.session.PendingSeed()
	if !pending {
		return nil
	}
	if garden.InSky(position) {
		return nil
	}

	if _, err := c.garden.PlantSeed(ctx, seedID, position); err != nil {
		return err
	}
	c.session.ConsumePendingSeed()
	return nil
}

// handleTapPlant interprets a tap on a plant. Uprooting mode always uproots;
// otherwise a ready plant is harvested, and a growing plant is watered when
// watering mode is on or it has dried below half.
func (c *Client) handleTapPlant(ctx context.Context, plantID string) error {
	if plantID == "" {
		return pkgerrors.NewValidationError("plantId cannot be empty")
	}

	if c.session.Mode() == session.ModeUprooting {
		return c.garden.UprootPlant(ctx, plantID)
	}

	view, ok := c.garden.PlantViewByID(plantID)
	if !ok {
		// Already gone; the next snapshot will catch this client up.
		return nil
	}

	if view.IsReady {
		memory, err := c.garden.HarvestPlant(ctx, plantID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				// Another client got there first.
				return nil
			}
			return err
		}

		reveal := gardenapp.MemoryViewOf(memory)
		c.session.ShowReveal(reveal)
		c.enqueue(marshalEnvelope(TypeHarvestReveal, reveal))
		return nil
	}

	if c.session.Mode() == session.ModeWatering || view.Hydration < 50 {
		return c.garden.WaterPlant(ctx, plantID)
	}
	return nil
}

func (c *Client) sessionStateMessage() []byte {
	return marshalEnvelope(TypeSessionState, c.session.State())
}

func (c *Client) sendError(err error) {
	message := "request failed"
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		message = appErr.Message
	}
	c.logger.Debug("Rejected client message", zap.Error(err))
	c.enqueue(marshalEnvelope(TypeError, map[string]string{"message": message}))
}
