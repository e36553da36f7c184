package stream

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/captainsdeck/backend/internal/domain"
)

const (
	// pingInterval must be shorter than pongWait or healthy connections
	// get reaped.
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	// maxMessageSize bounds client→server frames; subscriptions are tiny.
	maxMessageSize = 8 << 10

	// sendBuffer is per-client; a client that cannot drain this many
	// snapshots is dead weight and gets dropped.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of the router; the
	// upgrade itself accepts any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// client is one WebSocket connection. All writes to the socket go through
// the send channel and the write pump; only the hub closes send.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// clientCommand is the only client→server message shape: subscribe to or
// unsubscribe from a channel.
type clientCommand struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// ServeWS upgrades the request and runs the connection until it drops.
// Viewing is open to everyone, so no token is required to connect.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	// A ?trip=<id> query subscribes the client to everything about that
	// trip up front, saving the usual subscribe round-trips.
	if raw := r.URL.Query().Get("trip"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			h.subscribe(r.Context(), c, TripChannel(id))
			h.subscribe(r.Context(), c, YachtsChannel(id))
			h.subscribe(r.Context(), c, PaymentsChannel(id))
		}
	}

	go c.writePump()
	c.readPump(r)
}

// enqueue hands a message to the client's write pump. A full buffer means
// the client is not keeping up; the message is dropped and the next
// snapshot will carry the current state anyway.
func (c *client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) readPump(r *http.Request) {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("websocket read ended", "error", err)
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.hub.log.Debug("websocket bad command", "error", err)
			continue
		}
		if _, _, err := splitChannel(cmd.Channel); err != nil {
			c.hub.log.Debug("websocket unknown channel", "channel", cmd.Channel)
			continue
		}

		switch cmd.Action {
		case "subscribe":
			c.hub.subscribe(r.Context(), c, cmd.Channel)
		case "unsubscribe":
			c.hub.unsubscribe(c, cmd.Channel)
		default:
			c.hub.log.Debug("websocket unknown action", "action", cmd.Action)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// splitChannel parses a channel name into its kind and, for per-trip
// channels, the trip id.
func splitChannel(channel string) (kind string, id uuid.UUID, err error) {
	switch channel {
	case ChannelTrips, ChannelSettings:
		return channel, uuid.Nil, nil
	}
	kind, rest, ok := strings.Cut(channel, ":")
	if !ok {
		return "", uuid.Nil, domain.ErrValidation
	}
	switch kind {
	case "trip", "yachts", "payments":
	default:
		return "", uuid.Nil, domain.ErrValidation
	}
	id, err = uuid.Parse(rest)
	if err != nil {
		return "", uuid.Nil, domain.ErrValidation
	}
	return kind, id, nil
}
