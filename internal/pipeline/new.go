package pipeline

import (
	"context"

	"github.com/keithce/notion-voice-notes/internal/audio"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/config"
	"github.com/keithce/notion-voice-notes/internal/logger"
	"github.com/keithce/notion-voice-notes/internal/notion"
	"github.com/keithce/notion-voice-notes/internal/summarizer"
	"github.com/keithce/notion-voice-notes/internal/transcriber"
	"github.com/keithce/notion-voice-notes/pkg/executor"
)

// Deps are the step implementations the driver sequences. Tests swap in
// fakes; production wiring lives in New.
type Deps struct {
	Analyzer   audio.Analyzer
	Summarizer summarizer.Summarizer
	Resolve    func(ctx context.Context, requested string) (transcriber.Provider, error)
	Publisher  func(databaseID string) notion.Publisher
}

type implPipeline struct {
	cfg    *config.Config
	store  *cache.Store
	logger logger.Logger
	deps   Deps
}

// New creates a Pipeline with production dependencies.
func New(cfg *config.Config, store *cache.Store, log logger.Logger) Pipeline {
	exec := executor.New()
	return NewWithDeps(cfg, store, log, Deps{
		Analyzer:   audio.New(exec, log),
		Summarizer: summarizer.New(cfg.Gemini.APIKey, cfg.Gemini.Model, log),
		Resolve: func(ctx context.Context, requested string) (transcriber.Provider, error) {
			return transcriber.Resolve(ctx, cfg, requested, log)
		},
		Publisher: func(databaseID string) notion.Publisher {
			return notion.New(cfg.Notion.APIKey, databaseID, log)
		},
	})
}

// NewWithDeps creates a Pipeline with explicit step implementations.
func NewWithDeps(cfg *config.Config, store *cache.Store, log logger.Logger, deps Deps) Pipeline {
	return &implPipeline{
		cfg:    cfg,
		store:  store,
		logger: log,
		deps:   deps,
	}
}
