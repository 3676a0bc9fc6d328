package notion

import (
	"github.com/keithce/notion-voice-notes/internal/logger"
)

type implPublisher struct {
	apiKey     string
	databaseID string
	logger     logger.Logger
}

// New creates a Publisher targeting the given Notion database.
func New(apiKey, databaseID string, log logger.Logger) Publisher {
	return &implPublisher{
		apiKey:     apiKey,
		databaseID: databaseID,
		logger:     log,
	}
}
