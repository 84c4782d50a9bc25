// Package notification implements the notification job queue and the
// orchestrator that plays jobs out to connected overlay clients.
//
// A Notification is a declarative description of what to render: banner
// text, text to be spoken, a sound clip, a video clip, volumes and placement.
// Jobs are queued strictly first-in first-out and exactly one job plays at a
// time. Each job walks a fixed phase order:
//
//	created → video → text → audio (sound, then speech) → finished
//
// Phases without content are satisfied immediately. The video and audio
// phases hand a segment to the broadcast transport and wait for its
// completion barrier, so a phase lasts as long as the slowest connected
// overlay needs to play it. A job never finishes before a configured minimum
// display duration has elapsed, so even an empty job stays visible long
// enough to be noticed.
//
// Global controls are safe from any goroutine: Pause gates jobs that have
// not started yet, Skip short-circuits whatever phase is in flight, PlayNow
// moves a queued job to the front, and Replay re-arms a finished job from
// the history unless the job forbids it.
//
// Missing collaborators degrade instead of blocking: an absent media file or
// a failed speech synthesis marks the phase satisfied with a warning, because
// a stuck queue is a worse failure than a silent notification.
package notification
