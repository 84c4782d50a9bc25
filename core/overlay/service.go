package overlay

import (
	"embed"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/streamcast/core/broadcast"
	"github.com/dmitrymomot/streamcast/core/logger"
	"github.com/dmitrymomot/streamcast/core/static"
)

//go:embed assets
var assets embed.FS

// Config locates the overlay's on-disk collaborators.
type Config struct {
	// ResourceDir is served under /Resources. A missing directory is not an
	// error, the route just answers 404 until it appears on restart.
	ResourceDir string `env:"OVERLAY_RESOURCE_DIR" envDefault:"Resources"`

	// PagesDir overrides the embedded overlay pages with files from disk.
	PagesDir string `env:"OVERLAY_PAGES_DIR"`
}

// Channel joins WebSocket clients to a broadcast set. Both *broadcast.Hub
// and *counter.Service satisfy it.
type Channel interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Service builds the overlay's http.Handler.
type Service struct {
	cfg      Config
	log      *slog.Logger
	main     Channel
	counters Channel
	buffer   *broadcast.AudioBuffer

	resources http.Handler
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates the overlay service. The main channel carries notification
// commands, the counters channel the counter snapshots, and the buffer is
// where synthesized speech is staged for the /audio route.
func New(cfg Config, main, counters Channel, buffer *broadcast.AudioBuffer, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		log:      logger.NewNop(),
		main:     main,
		counters: counters,
		buffer:   buffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("overlay"))

	if cfg.ResourceDir != "" {
		h, err := static.Dir(cfg.ResourceDir, static.WithStripPrefix("/Resources"))
		if err != nil {
			s.log.Warn("resource directory unavailable",
				logger.Path(cfg.ResourceDir),
				logger.Error(err))
		} else {
			s.resources = h
		}
	}
	return s
}

// Handler builds the route table.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.channelOrPage(s.main, "index.html", "text/html; charset=utf-8"))
	mux.HandleFunc("GET /counter", s.channelOrPage(s.counters, "counter.html", "text/html; charset=utf-8"))
	mux.HandleFunc("GET /client.js", s.page("client.js", "text/javascript; charset=utf-8"))
	mux.HandleFunc("GET /counter.js", s.page("counter.js", "text/javascript; charset=utf-8"))
	mux.HandleFunc("GET /audio", s.audio)
	mux.HandleFunc("GET /favicon.ico", http.NotFound)
	mux.HandleFunc("GET /nothing", func(http.ResponseWriter, *http.Request) {})

	if s.resources != nil {
		mux.Handle("GET /Resources/", s.resources)
	} else {
		mux.HandleFunc("GET /Resources/", http.NotFound)
	}

	return s.logRequests(mux)
}

// channelOrPage joins WebSocket handshakes to the channel and serves the
// page to everyone else.
func (s *Service) channelOrPage(ch Channel, name, contentType string) http.HandlerFunc {
	servePage := s.page(name, contentType)
	return func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			ch.ServeWS(w, r)
			return
		}
		servePage(w, r)
	}
}

// page serves one overlay asset, preferring the disk override when present.
func (s *Service) page(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.PagesDir != "" {
			if data, err := os.ReadFile(filepath.Join(s.cfg.PagesDir, name)); err == nil {
				w.Header().Set("Content-Type", contentType)
				w.Write(data)
				return
			}
		}
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}

// audio serves the buffered speech clip. No clip means an empty 200, the
// overlay treats it as a zero-length track.
func (s *Service) audio(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-store")
	if data := s.buffer.Bytes(); len(data) > 0 {
		w.Write(data)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upgraded connections hijack the writer; wrapping would hide the
		// interfaces gorilla needs.
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Debug("request served",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.StatusCode(sw.status),
			logger.Elapsed(start))
	})
}
