// Package static serves overlay media assets (videos, sounds, images) from a
// resource directory over plain net/http.
//
// Only known media extensions are served and every request is contained to
// the configured root: traversal sequences and paths resolving outside the
// root yield 404 regardless of what exists on disk. Directory listing is not
// available.
//
// The package also classifies extensions so callers can build catalogs of
// playable assets:
//
//	if static.IsVideo("party.mp4") { ... }
package static
