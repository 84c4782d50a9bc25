package broadcast

import (
	"log/slog"
	"math"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/streamcast/core/logger"
)

// counterSatisfied parks an ack counter above any realistic audience size so
// the barrier reads as finished until the next segment starts.
const counterSatisfied = math.MaxInt32

// Hub fans identical frames out to every connected overlay client and tracks
// segment-completion acknowledgements.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	closed  bool

	videoEnds atomic.Int64
	audioEnds atomic.Int64
}

// NewHub creates an empty hub. A nil logger falls back to a no-op logger.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Hub{
		log:     log.With(logger.Component("broadcast")),
		clients: make(map[uuid.UUID]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Overlays are loaded from OBS browser sources and local files,
			// which send no usable Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	// No segment is in flight at startup.
	h.videoEnds.Store(counterSatisfied)
	h.audioEnds.Store(counterSatisfied)
	return h
}

// ServeWS upgrades the request and joins the resulting connection to the hub.
// Requests that are not valid WebSocket handshakes (a plain GET, a missing
// Sec-WebSocket-Key) receive an HTTP error from the upgrader and never become
// members of the client set.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade rejected",
			logger.Path(r.URL.Path),
			logger.Error(err))
		return
	}

	c := newClient(h, conn, h.log)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Info("client connected",
		logger.ID("client_id", c.id.String()),
		logger.Count("clients", n))

	go c.writePump()
	go c.readPump()
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	h.log.Info("client disconnected",
		logger.ID("client_id", c.id.String()),
		logger.Count("clients", n))
}

// ClientCount reports the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a raw frame to every connected client. Clients whose
// outbound queue is full are disconnected rather than allowed to stall the
// channel.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	stalled := make([]*Client, 0)
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.log.Warn("dropping stalled client", logger.ID("client_id", c.id.String()))
		c.close()
	}
}

// Send broadcasts a typed command.
func (h *Hub) Send(cmd Command) { h.Broadcast(cmd.Encode()) }

// Close disconnects every client and rejects future joins.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// StartVideo arms the video barrier for a new segment and announces the clip.
// The ack counter restarts at zero, so stale video_end frames from a previous
// (possibly skipped) segment are never observed as completions of this one.
func (h *Hub) StartVideo(cmd Command) {
	h.videoEnds.Store(0)
	h.Send(cmd)
}

// StartAudio arms the audio barrier for a new segment and announces the clip.
func (h *Hub) StartAudio(cmd Command) {
	h.audioEnds.Store(0)
	h.Send(cmd)
}

// ClearVideo stops playback on every client and disarms the video barrier.
func (h *Hub) ClearVideo() {
	h.videoEnds.Store(counterSatisfied)
	h.Send(Command{Type: TypeClearVideo})
}

// ClearAudio stops playback on every client and disarms the audio barrier.
func (h *Hub) ClearAudio() {
	h.audioEnds.Store(counterSatisfied)
	h.Send(Command{Type: TypeClearAudio})
}

// ClearText blanks the text layer.
func (h *Hub) ClearText() { h.Send(Command{Type: TypeClearText}) }

// ClearAll blanks every layer and disarms both barriers.
func (h *Hub) ClearAll() {
	h.videoEnds.Store(counterSatisfied)
	h.audioEnds.Store(counterSatisfied)
	h.Send(Command{Type: TypeClearAll})
}

// Pause freezes playback on every client.
func (h *Hub) Pause() { h.Send(Command{Type: TypePause}) }

// Resume releases a previous Pause.
func (h *Hub) Resume() { h.Send(Command{Type: TypeResume}) }

// GambaAnimation plays the minigame celebration on every overlay. It rides
// the notification channel but is independent of the job queue.
func (h *Hub) GambaAnimation() { h.Send(Command{Type: TypeGambaAnimation}) }

// VideoFinished reports whether every currently connected client has
// acknowledged the end of the running video segment. The denominator is the
// live client count: a client that disconnects mid-segment stops being
// waited for, and with no clients at all every segment is trivially finished.
func (h *Hub) VideoFinished() bool {
	return h.videoEnds.Load() >= int64(h.ClientCount())
}

// AudioFinished is the audio counterpart of VideoFinished.
func (h *Hub) AudioFinished() bool {
	return h.audioEnds.Load() >= int64(h.ClientCount())
}
