package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait is the deadline for a single write to the peer
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong before dropping the peer
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds a single inbound frame
	maxMessageSize = 64 * 1024

	// sendBufferSize is the per-connection outbound queue; a client
	// that cannot drain it is disconnected
	sendBufferSize = 64
)

// Client is one websocket connection. The hub goroutine owns its
// identity and room membership; the client only pumps bytes.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger,
	}
}

// enqueue queues an outbound frame without blocking the hub. Reports
// false when the client's buffer is full.
func (c *Client) enqueue(msg []byte) bool {
	if msg == nil {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// readPump reads envelopes off the wire and hands them to the hub.
// One goroutine per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
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
				c.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			c.logger.Debug("dropping malformed socket frame", zap.Error(err))
			continue
		}

		c.hub.inbound <- inboundEvent{client: c, env: env}
	}
}

// writePump drains the send queue to the wire and keeps the connection
// alive with pings. One goroutine per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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
