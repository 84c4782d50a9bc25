package static

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrNotDirectory is returned when the configured root exists but is not
	// a directory.
	ErrNotDirectory = errors.New("static: root is not a directory")

	// ErrRootNotFound is returned when the configured root does not exist.
	ErrRootNotFound = errors.New("static: root directory does not exist")
)

type dirConfig struct {
	stripPrefix string
}

// DirOption configures directory serving behavior.
type DirOption func(*dirConfig)

// WithStripPrefix removes the given prefix from the URL path before resolving
// files. Useful when mounting the handler under a route prefix.
func WithStripPrefix(prefix string) DirOption {
	return func(c *dirConfig) {
		c.stripPrefix = prefix
	}
}

// Dir creates a handler serving media files from root. Requests for unknown
// extensions, directories, or paths that resolve outside root answer 404.
// The root must exist when the handler is created.
func Dir(root string, opts ...DirOption) (http.Handler, error) {
	cfg := &dirConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	cleanRoot := filepath.Clean(root)
	info, err := os.Stat(cleanRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRootNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := strings.TrimPrefix(r.URL.Path, cfg.stripPrefix)

		full, ok := resolve(cleanRoot, reqPath)
		if !ok {
			http.NotFound(w, r)
			return
		}

		ct, ok := ContentType(full)
		if !ok {
			http.NotFound(w, r)
			return
		}

		f, err := os.Open(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil || stat.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", ct)
		http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
	}), nil
}

// resolve maps a request path onto the root directory and rejects anything
// that escapes it. Traversal sequences are neutralized by path.Clean before
// the containment check.
func resolve(root, reqPath string) (string, bool) {
	clean := path.Clean("/" + reqPath)
	full := filepath.Join(root, filepath.FromSlash(clean))

	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
