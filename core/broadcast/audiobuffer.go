package broadcast

import "sync"

// AudioBuffer holds the single in-memory audio clip referenced by commands
// whose audio field is AudioBuffered. The orchestrator swaps in freshly
// synthesized speech before announcing it; overlay clients fetch the bytes
// back over plain HTTP. There is one clip at a time, the previous one is
// simply replaced.
type AudioBuffer struct {
	mu   sync.RWMutex
	data []byte
}

// NewAudioBuffer returns an empty buffer.
func NewAudioBuffer() *AudioBuffer {
	return &AudioBuffer{}
}

// Set replaces the buffered clip.
func (b *AudioBuffer) Set(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
}

// Bytes returns the current clip, or nil when nothing is buffered. The
// returned slice is shared; callers must not modify it.
func (b *AudioBuffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data
}

// Clear drops the buffered clip.
func (b *AudioBuffer) Clear() {
	b.Set(nil)
}
