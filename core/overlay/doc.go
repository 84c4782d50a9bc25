// Package overlay assembles the HTTP surface browsers talk to: the overlay
// and counter pages, their scripts, the buffered speech clip, media files
// under /Resources, and the WebSocket endpoints that join the two broadcast
// channels.
//
// The pages ship embedded in the binary. Setting PagesDir serves matching
// files from disk instead, which makes overlay tweaking a save-and-reload
// loop instead of a rebuild.
//
// A WebSocket handshake on / or /counter joins the respective channel; a
// plain GET on the same paths serves the page. Requests that pretend to be
// an upgrade but lack the handshake headers get an HTTP error and never
// reach either client set.
package overlay
