package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config holds the speech provider settings loaded from the environment.
// An empty API key disables speech entirely; the orchestrator then skips
// the speech sub-phase of every job.
type Config struct {
	APIKey string  `env:"OPENAI_API_KEY"`
	Model  string  `env:"SPEECH_MODEL" envDefault:"tts-1"`
	Voice  string  `env:"SPEECH_VOICE" envDefault:"alloy"`
	Speed  float64 `env:"SPEECH_SPEED" envDefault:"1.0"`
}

// OpenAI synthesizes speech via the OpenAI audio API.
type OpenAI struct {
	client openai.Client
	model  string
	voice  string
	speed  float64
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithModel sets the speech model, e.g. "tts-1" or "tts-1-hd".
func WithModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithVoice sets the voice preset.
func WithVoice(voice string) OpenAIOption {
	return func(o *OpenAI) {
		if voice != "" {
			o.voice = voice
		}
	}
}

// WithSpeed sets the playback speed multiplier, within the API's 0.25-4.0
// range. Values outside the range are ignored.
func WithSpeed(speed float64) OpenAIOption {
	return func(o *OpenAI) {
		if speed >= 0.25 && speed <= 4.0 {
			o.speed = speed
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client, apiKey string) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.client = openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithHTTPClient(client),
			)
		}
	}
}

// WithBaseURL redirects API calls, mainly for tests against a local stub.
func WithBaseURL(url string) OpenAIOption {
	return func(o *OpenAI) {
		if url != "" {
			o.client = openai.NewClient(
				option.WithAPIKey("test"),
				option.WithBaseURL(url),
			)
		}
	}
}

// NewOpenAI creates a speech synthesizer backed by the OpenAI audio API.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  "tts-1",
		voice:  "alloy",
		speed:  1.0,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// NewFromConfig builds a synthesizer from environment configuration.
func NewFromConfig(cfg Config, opts ...OpenAIOption) (*OpenAI, error) {
	base := []OpenAIOption{
		WithModel(cfg.Model),
		WithVoice(cfg.Voice),
		WithSpeed(cfg.Speed),
	}
	return NewOpenAI(cfg.APIKey, append(base, opts...)...)
}

// Synthesize converts text into audio bytes in WAV format.
func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(o.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
		Speed:          openai.Float(o.speed),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoAudioReturned
	}
	return data, nil
}
