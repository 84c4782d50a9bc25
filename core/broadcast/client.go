package broadcast

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/streamcast/core/logger"
)

const (
	// writeWait bounds a single frame write, not the lifetime of the
	// connection.
	writeWait = 10 * time.Second

	// parseWait is how long the write pump waits for message_parsed before
	// pushing the next command anyway. Overlays that never ack (or ack late)
	// must not stall the channel forever.
	parseWait = 5 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxAckSize = 512

	// sendBuffer is the per-client outbound queue. A client that falls this
	// far behind the broadcast stream is dropped rather than allowed to
	// block everyone else.
	sendBuffer = 64
)

// Client is one connected overlay page. It is created by Hub.ServeWS and
// owned by its read and write pumps; nothing outside this package touches a
// Client directly.
type Client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	log  *slog.Logger

	send   chan []byte
	parsed chan struct{}

	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, log *slog.Logger) *Client {
	id := uuid.New()
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		log:    log.With(logger.ID("client_id", id.String())),
		send:   make(chan []byte, sendBuffer),
		parsed: make(chan struct{}, 1),
	}
}

// ID identifies the client in logs.
func (c *Client) ID() uuid.UUID { return c.id }

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
		c.hub.drop(c)
	})
}

// readPump consumes acknowledgement frames until the connection dies. It is
// the only goroutine reading from the connection.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxAckSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("client read failed", logger.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch strings.TrimSpace(string(msg)) {
		case AckMessageParsed:
			select {
			case c.parsed <- struct{}{}:
			default:
			}
		case AckVideoEnd:
			c.hub.videoEnds.Add(1)
		case AckAudioEnd:
			c.hub.audioEnds.Add(1)
		default:
			// Unknown frames are ignored; the protocol may grow.
		}
	}
}

// writePump serializes outbound frames. After each command it waits for the
// client's message_parsed ack (or parseWait) so a slow overlay processes
// commands in order instead of being flooded.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			select {
			case <-c.parsed:
			case <-time.After(parseWait):
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
