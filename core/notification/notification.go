package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/streamcast/core/broadcast"
)

// TextPosition anchors banner text on the overlay. The VIDEO* positions are
// relative to the frame of the playing video, which is why the text phase
// cannot start before the video phase is satisfied.
type TextPosition string

const (
	PosTopLeft     TextPosition = "TOPLEFT"
	PosTop         TextPosition = "TOP"
	PosTopRight    TextPosition = "TOPRIGHT"
	PosLeft        TextPosition = "LEFT"
	PosCenter      TextPosition = "CENTER"
	PosRight       TextPosition = "RIGHT"
	PosBottomLeft  TextPosition = "BOTTOMLEFT"
	PosBottom      TextPosition = "BOTTOM"
	PosBottomRight TextPosition = "BOTTOMRIGHT"
	PosVideoAbove  TextPosition = "VIDEOABOVE"
	PosVideoCenter TextPosition = "VIDEOCENTER"
	PosVideoBelow  TextPosition = "VIDEOBELOW"
)

// Notification is one queued render job. The exported fields are the
// declarative request filled in by the producer; everything an empty string
// or zero is simply not rendered. Runtime state is owned by the orchestrator
// and must not be touched once the job is submitted.
type Notification struct {
	ID uuid.UUID

	// Banner text shown on the overlay. May be multi-line.
	Text         string
	TextPosition TextPosition
	TextSize     float64

	// TextToRead is spoken via the speech synthesizer. Independent from
	// Sound: a job may carry both, they play back to back.
	TextToRead string

	// Sound is a resource path to a pre-rendered clip.
	Sound       string
	SoundVolume float64

	// Video is a resource path to a clip played before text and audio.
	Video         string
	VideoVolume   float64
	VideoPosition []float64
	VideoSize     []float64

	// NotPausable jobs start even while the queue is paused.
	NotPausable bool
	// NotReplayable jobs cannot be re-armed from the history.
	NotReplayable bool

	CreatedAt time.Time

	// mu guards the lifecycle timestamps, which producers may inspect while
	// the orchestrator loop writes them. The phase flags below need no lock:
	// they are touched only by the loop, or before the job is (re)published
	// to the queue.
	mu         sync.RWMutex
	startedAt  time.Time
	finishedAt time.Time

	videoStarted  bool
	videoEnded    bool
	textDisplayed bool
	soundStarted  bool
	soundEnded    bool
	speechStarted bool
	speechEnded   bool

	speechCh chan speechResult
}

type speechResult struct {
	data []byte
	err  error
}

// Started reports whether playback of the job has begun.
func (n *Notification) Started() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return !n.startedAt.IsZero()
}

// Finished reports whether the job has completed all its phases.
func (n *Notification) Finished() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return !n.finishedAt.IsZero()
}

// StartedAt returns when playback began, zero if it has not.
func (n *Notification) StartedAt() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.startedAt
}

// FinishedAt returns when the job completed, zero if it has not.
func (n *Notification) FinishedAt() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.finishedAt
}

func (n *Notification) markStarted(t time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.startedAt = t
}

func (n *Notification) markFinished(t time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finishedAt = t
}

// active reports a job that has started but not yet finished.
func (n *Notification) active() bool { return n.Started() && !n.Finished() }

// rearm resets all runtime state so a finished job can play again.
func (n *Notification) rearm() {
	n.mu.Lock()
	n.startedAt = time.Time{}
	n.finishedAt = time.Time{}
	n.mu.Unlock()
	n.videoStarted = false
	n.videoEnded = false
	n.textDisplayed = false
	n.soundStarted = false
	n.soundEnded = false
	n.speechStarted = false
	n.speechEnded = false
	n.speechCh = nil
}

// videoCommand builds the announcement for the job's video segment.
func (n *Notification) videoCommand() broadcast.Command {
	return broadcast.Command{
		Type:          broadcast.TypeNewNotification,
		Video:         n.Video,
		VideoVolume:   n.VideoVolume,
		VideoPosition: n.VideoPosition,
		VideoSize:     n.VideoSize,
	}
}

// textCommand builds the banner announcement.
func (n *Notification) textCommand() broadcast.Command {
	return broadcast.Command{
		Type:         broadcast.TypeNewNotification,
		Text:         n.Text,
		TextPosition: string(n.TextPosition),
		TextSize:     n.TextSize,
	}
}

// soundCommand builds the announcement for the pre-rendered clip.
func (n *Notification) soundCommand() broadcast.Command {
	return broadcast.Command{
		Type:        broadcast.TypeNewNotification,
		Audio:       n.Sound,
		AudioVolume: n.SoundVolume,
	}
}

// speechCommand points clients at the buffered synthesized clip.
func (n *Notification) speechCommand() broadcast.Command {
	return broadcast.Command{
		Type:        broadcast.TypeNewNotification,
		Audio:       broadcast.AudioBuffered,
		AudioVolume: n.SoundVolume,
	}
}
