package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamcast/core/server"
)

func TestServerLifecycle(t *testing.T) {
	t.Run("start returns context error on cancellation", func(t *testing.T) {
		srv := server.New("127.0.0.1:0")

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(ctx, http.NewServeMux())
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop after context cancellation")
		}

		require.NoError(t, srv.Stop())
	})

	t.Run("stop on non-running server is a no-op", func(t *testing.T) {
		srv := server.New("127.0.0.1:0")
		assert.NoError(t, srv.Stop())
	})

	t.Run("run adapter swallows cancellation", func(t *testing.T) {
		srv := server.New("127.0.0.1:0")

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Run(ctx, http.NewServeMux())()
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("run did not return after context cancellation")
		}
	})
}
