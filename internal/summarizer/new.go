package summarizer

import (
	"github.com/go-playground/validator/v10"

	"github.com/keithce/notion-voice-notes/internal/logger"
)

type implSummarizer struct {
	apiKey   string
	model    string
	logger   logger.Logger
	validate *validator.Validate
}

// New creates a Summarizer backed by the Gemini API.
func New(apiKey, model string, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKey:   apiKey,
		model:    model,
		logger:   log,
		validate: validator.New(),
	}
}
