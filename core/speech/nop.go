package speech

import "context"

// Nop is a synthesizer that produces no audio. Useful when no provider is
// configured: the speech phase degrades the same way a synthesis failure does.
type Nop struct{}

// Synthesize returns no audio and no error.
func (Nop) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return nil, nil
}
