package counter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamcast/core/counter"
)

func TestSet_Mutations(t *testing.T) {
	t.Parallel()

	t.Run("add is case-insensitively unique", func(t *testing.T) {
		t.Parallel()

		s := counter.NewSet("test")
		s.Add("Deaths")
		s.Add("deaths")
		s.Add("DEATHS")

		snap := s.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "Deaths", snap[0].Name)
		assert.Equal(t, counter.DefaultIconPath, snap[0].IconPath)
	})

	t.Run("increase decrease and set match by any casing", func(t *testing.T) {
		t.Parallel()

		s := counter.NewSet("test")
		s.Add("Deaths")

		s.Increase("deaths", 1)
		s.Increase("DEATHS", 2)
		assert.Equal(t, 3, s.Snapshot()[0].Value)

		s.Decrease("Deaths", 1)
		assert.Equal(t, 2, s.Snapshot()[0].Value)

		s.SetValue("deaths", 40)
		assert.Equal(t, 40, s.Snapshot()[0].Value)
	})

	t.Run("unknown names are no-ops", func(t *testing.T) {
		t.Parallel()

		s := counter.NewSet("test")
		s.Increase("ghost", 1)
		s.Remove("ghost")
		s.SetValue("ghost", 5)
		assert.Empty(t, s.Snapshot())
	})

	t.Run("remove keeps the rest in order", func(t *testing.T) {
		t.Parallel()

		s := counter.NewSet("test")
		s.Add("a")
		s.Add("b")
		s.Add("c")
		s.Remove("b")

		snap := s.Snapshot()
		require.Len(t, snap, 2)
		assert.Equal(t, "a", snap[0].Name)
		assert.Equal(t, "c", snap[1].Name)
	})
}

func TestSet_Encode(t *testing.T) {
	t.Parallel()

	s := counter.NewSet("test")
	s.Add("Deaths")
	s.Increase("deaths", 7)

	var rows [][]any
	require.NoError(t, json.Unmarshal(s.Encode(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"Deaths", float64(7), counter.DefaultIconPath}, rows[0])
}

func TestSet_HandleChat(t *testing.T) {
	t.Parallel()

	s := counter.NewSet("test")

	reply, handled := s.HandleChat("")
	assert.True(t, handled)
	assert.Equal(t, counter.HelpText, reply)

	reply, handled = s.HandleChat("help")
	assert.True(t, handled)
	assert.Equal(t, counter.HelpText, reply)

	_, handled = s.HandleChat("add first counter")
	assert.True(t, handled)

	_, handled = s.HandleChat("++ first counter")
	assert.True(t, handled)
	_, handled = s.HandleChat("++ first counter")
	assert.True(t, handled)
	_, handled = s.HandleChat("-- first counter")
	assert.True(t, handled)

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "first counter", snap[0].Name)
	assert.Equal(t, 1, snap[0].Value)

	_, handled = s.HandleChat("42 first counter")
	assert.True(t, handled)
	assert.Equal(t, 42, s.Snapshot()[0].Value)

	_, handled = s.HandleChat("remove first counter")
	assert.True(t, handled)
	assert.Empty(t, s.Snapshot())

	_, handled = s.HandleChat("nonsense")
	assert.False(t, handled)
	_, handled = s.HandleChat("explode first counter")
	assert.False(t, handled)
}

type fakeChannel struct {
	mu     sync.Mutex
	frames [][]byte
	joins  int
}

func (f *fakeChannel) Broadcast(msg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, msg)
}

func (f *fakeChannel) ServeWS(http.ResponseWriter, *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins++
}

func (f *fakeChannel) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func TestService_Run(t *testing.T) {
	t.Parallel()

	set := counter.NewSet("test")
	channel := &fakeChannel{}
	svc := counter.New(set, channel, counter.WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// The fresh set is dirty, so exactly one initial snapshot goes out.
	require.Eventually(t, func() bool { return channel.frameCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	// Quiet set, no further frames.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, channel.frameCount())

	// A burst of edits collapses into at most a frame per tick, and the
	// last frame carries the final state.
	set.Add("Deaths")
	set.Increase("Deaths", 5)
	require.Eventually(t, func() bool {
		channel.mu.Lock()
		defer channel.mu.Unlock()
		if len(channel.frames) < 2 {
			return false
		}
		var rows [][]any
		if err := json.Unmarshal(channel.frames[len(channel.frames)-1], &rows); err != nil {
			return false
		}
		return len(rows) == 1 && rows[0][1] == float64(5)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestService_ServeWSMarksDirty(t *testing.T) {
	t.Parallel()

	set := counter.NewSet("test")
	channel := &fakeChannel{}
	svc := counter.New(set, channel, counter.WithInterval(5*time.Millisecond))

	svc.ServeWS(nil, nil)

	channel.mu.Lock()
	assert.Equal(t, 1, channel.joins)
	channel.mu.Unlock()
}
