package static_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamcast/core/static"
)

func newCatalogDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, name := range []string{
		"sounds/Ding.wav",
		"sounds/Fanfare.mp3",
		"clips/party.mp4",
		"clips/raid.mkv",
		"clips/confetti.gif",
		"notes.txt",
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return root
}

func TestCatalog_Sounds(t *testing.T) {
	t.Parallel()

	c, err := static.ScanCatalog(newCatalogDir(t))
	require.NoError(t, err)

	path, ok := c.Sound("ding")
	require.True(t, ok)
	assert.Equal(t, "sounds/Ding.wav", path)

	// Lookup is by lowercase basename regardless of query casing.
	_, ok = c.Sound("FANFARE")
	assert.True(t, ok)

	_, ok = c.Sound("missing")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"ding", "fanfare"}, c.Sounds())
}

func TestCatalog_Videos(t *testing.T) {
	t.Parallel()

	c, err := static.ScanCatalog(newCatalogDir(t))
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"clips/party.mp4", "clips/raid.mkv", "clips/confetti.gif"},
		c.Videos())

	// Picks avoid immediate repeats while the pool allows it.
	prev, ok := c.RandomVideo()
	require.True(t, ok)
	for range 20 {
		next, ok := c.RandomVideo()
		require.True(t, ok)
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestCatalog_Empty(t *testing.T) {
	t.Parallel()

	c, err := static.ScanCatalog(t.TempDir())
	require.NoError(t, err)

	_, ok := c.RandomVideo()
	assert.False(t, ok)
	assert.Empty(t, c.Sounds())
	assert.Empty(t, c.Videos())
}
