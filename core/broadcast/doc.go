// Package broadcast maintains a set of WebSocket display clients and pushes
// identical JSON commands to every member of the set.
//
// A Hub owns one logical channel: browser overlays connect via ServeWS, every
// queued command is mirrored to all connected clients, and three bare-string
// acknowledgements flow back (message_parsed for flow control, video_end and
// audio_end for the completion barrier).
//
// The completion barrier answers "has every currently connected client
// finished the segment": the ack counter is compared against the live client
// count each time it is asked, never against a snapshot taken when the
// segment started. Clients that disconnect mid-segment therefore stop being
// waited for, and an empty audience finishes every segment immediately.
//
// Multiple independent hubs can be mounted on one HTTP server; the overlay
// notification channel and the on-screen counter channel are two instances of
// the same type.
package broadcast
