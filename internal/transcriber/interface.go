package transcriber

import (
	"context"

	"github.com/keithce/notion-voice-notes/internal/audio"
)

// Result is the concatenated transcript for all chunks of one recording.
type Result struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds"`
	Provider        string  `json:"provider"`
}

// Provider is an interchangeable speech-to-text backend handling a single
// audio file per call.
type Provider interface {
	Name() string
	TranscribeFile(ctx context.Context, path string) (string, error)
}

// Transcriber drives a Provider over an ordered chunk list.
type Transcriber interface {
	Transcribe(ctx context.Context, chunks []audio.Chunk) (*Result, error)
}
