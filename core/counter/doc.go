// Package counter implements the on-screen counter overlay: a named set of
// integer counters adjusted from chat commands and mirrored to a secondary
// broadcast channel.
//
// The counter channel is independent from the notification channel; it
// shares the transport type but nothing else. State changes set a dirty flag
// and a small ticker loop pushes the full snapshot to every connected
// counter view whenever the flag is set, so rapid chat edits collapse into
// one frame per tick.
//
// The wire format is a JSON array of [name, value, iconPath] triples, the
// shape the counter view renders directly.
package counter
