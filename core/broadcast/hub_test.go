package broadcast_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamcast/core/broadcast"
)

func newTestHub(t *testing.T) (*broadcast.Hub, *httptest.Server) {
	t.Helper()

	hub := broadcast.NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readCommand reads the next text frame and acknowledges it so the hub's
// flow control releases the following frame without waiting for a timeout.
func readCommand(t *testing.T, conn *websocket.Conn) broadcast.Command {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var cmd broadcast.Command
	require.NoError(t, json.Unmarshal(msg, &cmd))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(broadcast.AckMessageParsed)))
	return cmd
}

func waitForClients(t *testing.T, hub *broadcast.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n },
		2*time.Second, 10*time.Millisecond)
}

func TestHub_ServeWS(t *testing.T) {
	t.Parallel()

	t.Run("plain http request never joins the client set", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)

		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, hub.ClientCount())
	})

	t.Run("websocket handshake joins and leave shrinks the set", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)

		conn := dial(t, srv)
		waitForClients(t, hub, 1)

		conn.Close()
		waitForClients(t, hub, 0)
	})
}

func TestHub_Broadcast(t *testing.T) {
	t.Parallel()

	t.Run("every client receives every frame in order", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)
		a := dial(t, srv)
		b := dial(t, srv)
		waitForClients(t, hub, 2)

		hub.Send(broadcast.Command{Type: broadcast.TypePause})
		hub.Send(broadcast.Command{Type: broadcast.TypeResume})

		for _, conn := range []*websocket.Conn{a, b} {
			assert.Equal(t, broadcast.TypePause, readCommand(t, conn).Type)
			assert.Equal(t, broadcast.TypeResume, readCommand(t, conn).Type)
		}
	})

	t.Run("broadcast with no clients is a no-op", func(t *testing.T) {
		t.Parallel()

		hub, _ := newTestHub(t)
		hub.Send(broadcast.Command{Type: broadcast.TypeClearAll})
		assert.Equal(t, 0, hub.ClientCount())
	})
}

func TestHub_VideoBarrier(t *testing.T) {
	t.Parallel()

	t.Run("finished immediately with no audience", func(t *testing.T) {
		t.Parallel()

		hub, _ := newTestHub(t)
		hub.StartVideo(broadcast.Command{Type: broadcast.TypeNewNotification, Video: "clip.mp4"})
		assert.True(t, hub.VideoFinished())
	})

	t.Run("waits for every connected client to ack", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)
		a := dial(t, srv)
		b := dial(t, srv)
		waitForClients(t, hub, 2)

		hub.StartVideo(broadcast.Command{Type: broadcast.TypeNewNotification, Video: "clip.mp4"})
		readCommand(t, a)
		readCommand(t, b)
		assert.False(t, hub.VideoFinished())

		require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(broadcast.AckVideoEnd)))
		require.Never(t, hub.VideoFinished, 200*time.Millisecond, 20*time.Millisecond)

		require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(broadcast.AckVideoEnd)))
		require.Eventually(t, hub.VideoFinished, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("disconnect shrinks the denominator", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)
		a := dial(t, srv)
		b := dial(t, srv)
		waitForClients(t, hub, 2)

		hub.StartVideo(broadcast.Command{Type: broadcast.TypeNewNotification, Video: "clip.mp4"})
		readCommand(t, a)
		readCommand(t, b)

		require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(broadcast.AckVideoEnd)))
		require.Never(t, hub.VideoFinished, 200*time.Millisecond, 20*time.Millisecond)

		b.Close()
		require.Eventually(t, hub.VideoFinished, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("clear disarms a running segment", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)
		conn := dial(t, srv)
		waitForClients(t, hub, 1)

		hub.StartVideo(broadcast.Command{Type: broadcast.TypeNewNotification, Video: "clip.mp4"})
		readCommand(t, conn)
		assert.False(t, hub.VideoFinished())

		hub.ClearVideo()
		assert.True(t, hub.VideoFinished())
		assert.Equal(t, broadcast.TypeClearVideo, readCommand(t, conn).Type)
	})

	t.Run("new segment ignores stale acks from the previous one", func(t *testing.T) {
		t.Parallel()

		hub, srv := newTestHub(t)
		conn := dial(t, srv)
		waitForClients(t, hub, 1)

		hub.ClearVideo()
		readCommand(t, conn)

		// Stale ack arrives after the clear, then a new segment starts.
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(broadcast.AckVideoEnd)))
		time.Sleep(100 * time.Millisecond)

		hub.StartVideo(broadcast.Command{Type: broadcast.TypeNewNotification, Video: "next.mp4"})
		readCommand(t, conn)
		require.Never(t, hub.VideoFinished, 200*time.Millisecond, 20*time.Millisecond)
	})
}

func TestHub_AudioBarrier(t *testing.T) {
	t.Parallel()

	hub, srv := newTestHub(t)
	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.StartAudio(broadcast.Command{Type: broadcast.TypeNewNotification, Audio: broadcast.AudioBuffered})
	cmd := readCommand(t, conn)
	assert.Equal(t, broadcast.AudioBuffered, cmd.Audio)
	assert.False(t, hub.AudioFinished())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(broadcast.AckAudioEnd)))
	require.Eventually(t, hub.AudioFinished, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Close(t *testing.T) {
	t.Parallel()

	hub, srv := newTestHub(t)
	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Close()
	waitForClients(t, hub, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
