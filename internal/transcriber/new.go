package transcriber

import (
	"github.com/keithce/notion-voice-notes/internal/logger"
)

type implTranscriber struct {
	provider Provider
	logger   logger.Logger
}

// New creates a Transcriber driving the given provider.
func New(provider Provider, log logger.Logger) Transcriber {
	return &implTranscriber{
		provider: provider,
		logger:   log,
	}
}
