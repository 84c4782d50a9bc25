package broadcast

import "encoding/json"

// Command types understood by the overlay page.
const (
	TypeClearAll        = "clear_all"
	TypeClearVideo      = "clear_video"
	TypeClearAudio      = "clear_audio"
	TypeClearText       = "clear_text"
	TypePause           = "pause"
	TypeResume          = "resume"
	TypeNewNotification = "new_notification"
	TypeGambaAnimation  = "gamba_animation"
)

// Acknowledgements sent back by clients as bare text frames.
const (
	AckMessageParsed = "message_parsed"
	AckVideoEnd      = "video_end"
	AckAudioEnd      = "audio_end"
)

// AudioBuffered is the sentinel value of the "audio" field telling the
// overlay to fetch the current in-memory clip from the /audio endpoint
// instead of a resource path.
const AudioBuffered = "audio"

// Command is the JSON envelope pushed to overlay clients. Only the fields
// relevant to a given Type are populated; absent fields are omitted from the
// wire form so the overlay can fall back to its own defaults.
type Command struct {
	Type string `json:"type"`

	Text         string  `json:"text,omitempty"`
	TextPosition string  `json:"text_position,omitempty"`
	TextSize     float64 `json:"text_size,omitempty"`

	Video         string    `json:"video,omitempty"`
	VideoPosition []float64 `json:"video_position,omitempty"`
	VideoSize     []float64 `json:"video_size,omitempty"`
	VideoVolume   float64   `json:"video_volume,omitempty"`

	Audio       string  `json:"audio,omitempty"`
	AudioVolume float64 `json:"audio_volume,omitempty"`
}

// Encode renders the command for the wire. Marshalling a flat struct of
// primitives cannot fail, so errors are treated as programmer mistakes.
func (c Command) Encode() []byte {
	b, err := json.Marshal(c)
	if err != nil {
		panic("broadcast: encode command: " + err.Error())
	}
	return b
}
