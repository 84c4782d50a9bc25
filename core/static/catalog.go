package static

import (
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
)

// Catalog indexes the playable assets under a resource root so producers can
// reference sounds by short name and pick random videos without immediate
// repeats. Paths are stored slash-separated and relative to the root, the
// same form notification jobs and the /Resources route use.
type Catalog struct {
	root string

	mu     sync.Mutex
	sounds map[string]string
	videos []string
	recent []string
}

// ScanCatalog walks the resource root and indexes every known sound and
// video file. Unreadable subtrees are skipped rather than failing the scan.
func ScanCatalog(root string) (*Catalog, error) {
	c := &Catalog{root: root}
	if err := c.Rescan(); err != nil {
		return nil, err
	}
	return c, nil
}

// Rescan rebuilds the index from disk. The recently-played list survives so
// a rescan does not cause back-to-back repeats.
func (c *Catalog) Rescan() error {
	sounds := make(map[string]string)
	var videos []string

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		switch {
		case IsAudio(rel):
			sounds[soundKey(rel)] = rel
		case IsVideo(rel):
			videos = append(videos, rel)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sounds = sounds
	c.videos = videos
	c.mu.Unlock()
	return nil
}

// Sound resolves a short sound name ("ding" for alerts/Ding.wav) to its
// resource path.
func (c *Catalog) Sound(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, ok := c.sounds[strings.ToLower(name)]
	return path, ok
}

// Sounds lists the short names of every indexed sound.
func (c *Catalog) Sounds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.sounds))
	for name := range c.sounds {
		out = append(out, name)
	}
	return out
}

// Has reports whether the resource path is a playable asset the catalog
// knows about.
func (c *Catalog) Has(ref string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if contains(c.videos, ref) {
		return true
	}
	for _, path := range c.sounds {
		if path == ref {
			return true
		}
	}
	return false
}

// Videos lists every indexed video path.
func (c *Catalog) Videos() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.videos))
	copy(out, c.videos)
	return out
}

// RandomVideo picks a video, avoiding roughly the most recent half of the
// pool so small collections still feel varied. It reports false when no
// videos are indexed.
func (c *Catalog) RandomVideo() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.videos) == 0 {
		return "", false
	}

	candidates := make([]string, 0, len(c.videos))
	for _, v := range c.videos {
		if !contains(c.recent, v) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		c.recent = nil
		candidates = c.videos
	}

	pick := candidates[rand.Intn(len(candidates))]
	c.recent = append(c.recent, pick)
	if max := len(c.videos) / 2; len(c.recent) > max {
		c.recent = c.recent[len(c.recent)-max:]
	}
	return pick, true
}

func soundKey(rel string) string {
	base := filepath.Base(rel)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
