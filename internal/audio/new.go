package audio

import (
	"github.com/keithce/notion-voice-notes/internal/logger"
	"github.com/keithce/notion-voice-notes/pkg/executor"
)

type implAnalyzer struct {
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Analyzer instance
func New(exec executor.Executor, log logger.Logger) Analyzer {
	return &implAnalyzer{
		executor: exec,
		logger:   log,
	}
}
