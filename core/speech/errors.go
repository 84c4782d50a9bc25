package speech

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrEmptyText indicates there was nothing to synthesize.
	ErrEmptyText = errors.New("empty text")

	// ErrNoAudioReturned indicates the provider answered with no audio data.
	ErrNoAudioReturned = errors.New("no audio returned")
)
