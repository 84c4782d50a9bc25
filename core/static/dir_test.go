package static_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamcast/core/static"
)

func newResourceDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "alerts"), 0o755))

	files := map[string]string{
		"party.mp4":        "mp4-bytes",
		"ding.wav":         "wav-bytes",
		"alerts/icon.png":  "png-bytes",
		"notes.txt":        "not served",
		"secrets/key.wav":  "",
		"alerts/theme.ogg": "ogg-bytes",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func TestDir(t *testing.T) {
	t.Parallel()

	root := newResourceDir(t)
	h, err := static.Dir(root, static.WithStripPrefix("/Resources"))
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	get := func(t *testing.T, path string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("serves media with the right content type", func(t *testing.T) {
		for path, ct := range map[string]string{
			"/Resources/party.mp4":        "video/mp4",
			"/Resources/ding.wav":         "audio/wav",
			"/Resources/alerts/icon.png":  "image/png",
			"/Resources/alerts/theme.ogg": "audio/ogg",
		} {
			resp := get(t, path)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
			assert.Equal(t, ct, resp.Header.Get("Content-Type"), path)
		}
	})

	t.Run("refuses non-media extensions", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, "/Resources/notes.txt").StatusCode)
	})

	t.Run("refuses missing files and directories", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, "/Resources/absent.mp4").StatusCode)
		assert.Equal(t, http.StatusNotFound, get(t, "/Resources/alerts").StatusCode)
	})

	t.Run("contains traversal inside the root", func(t *testing.T) {
		// The HTTP client normalizes "..", so exercise the handler directly.
		req := httptest.NewRequest(http.MethodGet, "/Resources/x", nil)
		req.URL.Path = "/Resources/../../../etc/passwd"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDir_Startup(t *testing.T) {
	t.Parallel()

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := static.Dir(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, static.ErrRootNotFound)
	})

	t.Run("root is a file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		_, err := static.Dir(file)
		assert.ErrorIs(t, err, static.ErrNotDirectory)
	})
}

func TestContentType(t *testing.T) {
	t.Parallel()

	ct, ok := static.ContentType("CLIP.MP4")
	assert.True(t, ok)
	assert.Equal(t, "video/mp4", ct)

	_, ok = static.ContentType("readme.md")
	assert.False(t, ok)

	assert.True(t, static.IsVideo("a.gif"))
	assert.True(t, static.IsAudio("b.Wav"))
	assert.True(t, static.IsImage("c.png"))
	assert.False(t, static.IsVideo("c.png"))
}
