package notification

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/streamcast/core/broadcast"
	"github.com/dmitrymomot/streamcast/core/logger"
)

// Transport is the orchestrator's view of the broadcast channel. StartVideo
// and StartAudio arm the corresponding completion barrier before announcing
// the segment; VideoFinished and AudioFinished report the barrier against the
// live client count. *broadcast.Hub satisfies it.
type Transport interface {
	Send(broadcast.Command)
	StartVideo(broadcast.Command)
	StartAudio(broadcast.Command)
	ClearVideo()
	ClearAudio()
	ClearText()
	Pause()
	Resume()
	VideoFinished() bool
	AudioFinished() bool
}

// Synthesizer turns text into playable audio bytes. Synthesis failures
// degrade the speech sub-phase instead of blocking the queue.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Orchestrator plays queued notifications one at a time over a broadcast
// transport. Submission and the global controls are safe from any goroutine;
// playback itself happens on the single Run loop.
type Orchestrator struct {
	queue     *Queue
	transport Transport
	synth     Synthesizer
	buffer    *broadcast.AudioBuffer
	log       *slog.Logger
	cfg       Config

	assetCheck func(ref string) bool

	paused atomic.Bool
	skip   atomic.Bool

	histMu  sync.Mutex
	history []*Notification
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithSynthesizer enables the speech sub-phase. Without one, jobs carrying
// text to read skip the speech sub-phase with a warning.
func WithSynthesizer(s Synthesizer) Option {
	return func(o *Orchestrator) { o.synth = s }
}

// WithAudioBuffer sets the shared buffer synthesized speech is staged in
// before clients fetch it over HTTP.
func WithAudioBuffer(b *broadcast.AudioBuffer) Option {
	return func(o *Orchestrator) { o.buffer = b }
}

// WithAssetCheck overrides how sound and video references are verified.
func WithAssetCheck(fn func(ref string) bool) Option {
	return func(o *Orchestrator) { o.assetCheck = fn }
}

// New creates an orchestrator playing over the given transport.
func New(transport Transport, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		queue:     NewQueue(),
		transport: transport,
		buffer:    broadcast.NewAudioBuffer(),
		log:       logger.NewNop(),
		cfg:       cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With(logger.Component("orchestrator"))
	return o
}

// Add submits a job for playback. Fire and forget: jobs play strictly in
// submission order and errors during playback never reach the producer.
func (o *Orchestrator) Add(n *Notification) {
	if n == nil {
		return
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	o.queue.Append(n)
	o.log.Debug("notification queued",
		logger.ID("notification_id", n.ID.String()),
		logger.Count("queued", o.queue.Len()))
}

// Pause holds back jobs that have not started yet and tells overlays to
// freeze. A job already mid-playback keeps going unless it is also skipped;
// jobs marked NotPausable start regardless.
func (o *Orchestrator) Pause() {
	if o.paused.CompareAndSwap(false, true) {
		o.transport.Pause()
		o.log.Info("notifications paused")
	}
}

// Resume releases a previous Pause.
func (o *Orchestrator) Resume() {
	if o.paused.CompareAndSwap(true, false) {
		o.transport.Resume()
		o.log.Info("notifications resumed")
	}
}

// Paused reports whether new jobs are currently held back.
func (o *Orchestrator) Paused() bool { return o.paused.Load() }

// Skip short-circuits whatever phase the active job is in. Repeated calls
// are idempotent; the flag clears itself when the job finishes or the next
// one starts.
func (o *Orchestrator) Skip() {
	o.skip.Store(true)
	o.log.Info("skip requested")
}

// PlayNow moves a queued job directly behind the playing head so it goes
// next. It reports whether the job was found in the queue.
func (o *Orchestrator) PlayNow(id uuid.UUID) bool {
	moved := o.queue.MoveToFront(id)
	if moved {
		o.log.Info("notification moved to front", logger.ID("notification_id", id.String()))
	}
	return moved
}

// Replay re-arms a finished job from the history and queues it to play
// next. Jobs marked NotReplayable, and jobs that never finished, are left
// alone and Replay reports false.
func (o *Orchestrator) Replay(id uuid.UUID) bool {
	o.histMu.Lock()
	var target *Notification
	for i := len(o.history) - 1; i >= 0; i-- {
		if o.history[i].ID == id {
			target = o.history[i]
			break
		}
	}
	o.histMu.Unlock()

	if target == nil || target.NotReplayable || !target.Finished() {
		return false
	}

	target.rearm()
	o.queue.PushFront(target)
	o.log.Info("notification replayed", logger.ID("notification_id", id.String()))
	return true
}

// History returns the most recently finished jobs, oldest first.
func (o *Orchestrator) History() []*Notification {
	o.histMu.Lock()
	defer o.histMu.Unlock()
	out := make([]*Notification, len(o.history))
	copy(out, o.history)
	return out
}

// Pending reports the number of queued jobs, the playing one included.
func (o *Orchestrator) Pending() int { return o.queue.Len() }

// Run drives playback until the context is cancelled. It returns nil on
// cancellation; the loop has no other way to stop.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.Info("orchestrator started",
		slog.Duration("min_display", o.cfg.MinDisplay))
	defer o.log.Info("orchestrator stopped")

	for {
		busy := o.tick(ctx)

		interval := o.cfg.IdleInterval
		if busy {
			interval = o.cfg.BusyInterval
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// tick advances the head job by one step. It reports whether a job is in
// flight so the loop can pick the fast interval.
func (o *Orchestrator) tick(ctx context.Context) bool {
	head := o.queue.Head()
	if head == nil {
		return false
	}

	if !head.Started() {
		if o.paused.Load() && !head.NotPausable {
			return false
		}
		o.start(ctx, head)
	}

	if !o.advance(head) {
		return true
	}

	o.finish(head)
	o.queue.RemoveHead()
	sleepCtx(ctx, o.cfg.CooldownDelay)
	return true
}

func (o *Orchestrator) start(ctx context.Context, n *Notification) {
	n.markStarted(time.Now())
	// A skip aimed at the previous job must not bleed into this one.
	o.skip.Store(false)

	if n.TextToRead != "" && o.synth != nil {
		ch := make(chan speechResult, 1)
		n.speechCh = ch
		text := n.TextToRead
		go func() {
			data, err := o.synth.Synthesize(ctx, text)
			ch <- speechResult{data: data, err: err}
		}()
	}

	o.log.Info("notification started", logger.ID("notification_id", n.ID.String()))
}

func (o *Orchestrator) finish(n *Notification) {
	o.transport.ClearText()
	o.skip.Store(false)
	n.markFinished(time.Now())

	o.histMu.Lock()
	o.history = append(o.history, n)
	if len(o.history) > o.cfg.HistoryLimit {
		o.history = o.history[len(o.history)-o.cfg.HistoryLimit:]
	}
	o.histMu.Unlock()

	o.log.Info("notification finished",
		logger.ID("notification_id", n.ID.String()),
		logger.Elapsed(n.StartedAt()))
}

// advance walks the phase order video → text → sound → speech and reports
// whether every phase is satisfied and the minimum display time has elapsed.
func (o *Orchestrator) advance(n *Notification) bool {
	if !n.videoEnded && !o.advanceVideo(n) {
		return false
	}

	// Pause gating happens before a job starts; once in flight it plays out.
	if !n.textDisplayed {
		if n.Text != "" && !o.skip.Load() {
			o.transport.Send(n.textCommand())
		}
		n.textDisplayed = true
	}

	// Sound and speech share one completion barrier, so they play back to
	// back; speech synthesis runs in the background from the moment the job
	// starts, it only waits here if the provider is slower than the sound.
	if !n.soundEnded && !o.advanceSound(n) {
		return false
	}
	if !n.speechEnded && !o.advanceSpeech(n) {
		return false
	}

	if time.Since(n.StartedAt()) < o.cfg.MinDisplay {
		return false
	}
	return true
}

func (o *Orchestrator) advanceVideo(n *Notification) bool {
	switch {
	case n.Video == "":
		n.videoEnded = true
	case !n.videoStarted:
		switch {
		case o.skip.Load():
			n.videoEnded = true
		case !o.assetOK(n.Video):
			o.log.Warn("video asset missing, phase skipped",
				logger.ID("notification_id", n.ID.String()),
				logger.Path(n.Video))
			n.videoEnded = true
		default:
			o.transport.StartVideo(n.videoCommand())
			n.videoStarted = true
			return false
		}
	case o.skip.Load():
		o.transport.ClearVideo()
		n.videoEnded = true
	case o.transport.VideoFinished():
		n.videoEnded = true
	default:
		return false
	}
	return true
}

func (o *Orchestrator) advanceSound(n *Notification) bool {
	switch {
	case n.Sound == "":
		n.soundEnded = true
	case o.skip.Load():
		if n.soundStarted {
			o.transport.ClearAudio()
		}
		n.soundEnded = true
		n.speechEnded = true
	case !n.soundStarted:
		if !o.assetOK(n.Sound) {
			o.log.Warn("sound asset missing, phase skipped",
				logger.ID("notification_id", n.ID.String()),
				logger.Path(n.Sound))
			n.soundEnded = true
			return true
		}
		o.transport.StartAudio(n.soundCommand())
		n.soundStarted = true
		return false
	case o.transport.AudioFinished():
		n.soundEnded = true
	default:
		return false
	}
	return true
}

func (o *Orchestrator) advanceSpeech(n *Notification) bool {
	switch {
	case n.TextToRead == "":
		n.speechEnded = true
	case o.skip.Load():
		if n.speechStarted {
			o.transport.ClearAudio()
		}
		n.speechEnded = true
	case !n.speechStarted:
		if n.speechCh == nil {
			o.log.Warn("no speech synthesizer configured, phase skipped",
				logger.ID("notification_id", n.ID.String()))
			n.speechEnded = true
			return true
		}
		select {
		case res := <-n.speechCh:
			if res.err != nil || len(res.data) == 0 {
				o.log.Warn("speech synthesis failed, phase skipped",
					logger.ID("notification_id", n.ID.String()),
					logger.Error(res.err))
				n.speechEnded = true
				return true
			}
			o.buffer.Set(res.data)
			o.transport.StartAudio(n.speechCommand())
			n.speechStarted = true
			return false
		default:
			// Synthesis still in flight.
			return false
		}
	case o.transport.AudioFinished():
		n.speechEnded = true
	default:
		return false
	}
	return true
}

func (o *Orchestrator) assetOK(ref string) bool {
	if o.assetCheck != nil {
		return o.assetCheck(ref)
	}
	if o.cfg.ResourceDir == "" {
		return true
	}
	_, err := os.Stat(filepath.Join(o.cfg.ResourceDir, filepath.FromSlash(ref)))
	return err == nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
