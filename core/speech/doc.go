// Package speech synthesizes notification text into playable audio.
//
// The OpenAI implementation calls the speech endpoint and returns the raw
// clip bytes; the orchestrator stages them in the shared audio buffer for
// overlay clients to fetch. Synthesis failures are ordinary errors, callers
// decide whether to degrade or retry.
package speech
