package counter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/streamcast/core/logger"
)

// Channel is the slice of the broadcast transport the counter feature uses.
// *broadcast.Hub satisfies it.
type Channel interface {
	Broadcast(msg []byte)
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Config controls the broadcaster's pacing.
type Config struct {
	Interval time.Duration `env:"COUNTER_INTERVAL" envDefault:"100ms"`
	SetName  string        `env:"COUNTER_SET_NAME" envDefault:"default"`
}

// Service owns a counter set and mirrors it to the counter channel whenever
// it changes.
type Service struct {
	set      *Set
	channel  Channel
	log      *slog.Logger
	interval time.Duration
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

// WithInterval overrides the broadcast tick.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a counter service publishing the given set over the channel.
func New(set *Set, channel Channel, opts ...Option) *Service {
	s := &Service{
		set:      set,
		channel:  channel,
		log:      logger.NewNop(),
		interval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("counter"))
	return s
}

// Set exposes the underlying counter set for the chat command surface.
func (s *Service) Set() *Set { return s.set }

// ServeWS joins a counter view to the channel and schedules a snapshot so
// the new view catches up with the current state.
func (s *Service) ServeWS(w http.ResponseWriter, r *http.Request) {
	s.channel.ServeWS(w, r)
	s.set.MarkDirty()
}

// Run pushes a snapshot on every tick the set was dirtied, until the context
// is cancelled. It returns nil on cancellation.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("counter broadcaster started", slog.Duration("interval", s.interval))
	defer s.log.Info("counter broadcaster stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.set.consumeDirty() {
				s.channel.Broadcast(s.set.Encode())
			}
		}
	}
}
