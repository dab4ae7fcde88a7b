package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/arbiterhq/arbiter/pkg/logger"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames; subscribers only listen.
	maxMessageSize = 512

	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals // shared upgrader configuration
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The service fronts trusted review tooling only.
		return true
	},
}

// Client is one WebSocket subscriber to the verdict stream.
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan VerdictEvent
}

// Serve upgrades an HTTP request to a WebSocket subscription and runs
// the client pumps until the connection or ctx ends.
func Serve(ctx context.Context, hub *Hub, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		id:   uuid.New().String(),
		conn: conn,
		hub:  hub,
		send: make(chan VerdictEvent, sendBufferSize),
	}
	hub.Register(c)

	go c.writePump(ctx)
	go c.readPump(ctx)
	return nil
}

// readPump discards inbound frames and detects disconnects.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Get().Named("ws-client").Debug(ctx, "unexpected close", logger.Error(err))
			}
			return
		}
	}
}

// writePump streams verdict events and keepalive pings to the peer.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
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
