package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/audio"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/notion"
	"github.com/keithce/notion-voice-notes/internal/summarizer"
	"github.com/keithce/notion-voice-notes/internal/transcriber"
)

// Cache input snapshots, one type per step. Their canonical JSON encoding
// is what gets fingerprinted, so field changes invalidate old entries.
type audioInput struct {
	Path string `json:"path"`
}

type transcriptionInput struct {
	Path      string `json:"path"`
	Provider  string `json:"provider"`
	SizeBytes int64  `json:"size_bytes"`
}

type summarizationInput struct {
	Transcript string `json:"transcript"`
}

type notionInput struct {
	DatabaseID string      `json:"database_id"`
	Page       notion.Page `json:"page"`
}

// Run executes the full pipeline: probe, transcribe, summarize, publish.
// Steps run strictly in sequence, each through the cache unless NoCache
// is set. Dry runs render a preview instead of creating a page and never
// touch the notion cache entry.
func (p *implPipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	startTime := time.Now()
	result := &Result{AudioFile: opts.AudioPath}

	if _, err := os.Stat(opts.AudioPath); err != nil {
		return result, apperror.ErrFileNotFound(opts.AudioPath)
	}

	p.logger.Info(ctx, "Starting voice note pipeline: %s", opts.AudioPath)

	// Step 1: probe
	probed, err := cache.Run(ctx, p.store, cache.StepAudio, audioInput{Path: opts.AudioPath}, opts.NoCache,
		func(ctx context.Context) (audio.Metadata, error) {
			return p.deps.Analyzer.Probe(ctx, opts.AudioPath)
		})
	if err != nil {
		return result, err
	}
	md := probed.Output
	result.Audio = &md

	// Step 2: transcribe (split + provider calls + chunk cleanup)
	tr, err := p.transcribe(ctx, opts, md)
	if err != nil {
		return result, err
	}
	result.Transcription = tr

	// Step 3: summarize
	summarized, err := cache.Run(ctx, p.store, cache.StepSummarization, summarizationInput{Transcript: tr.Text}, opts.NoCache,
		func(ctx context.Context) (*summarizer.Result, error) {
			return p.deps.Summarizer.Summarize(ctx, tr.Text)
		})
	if err != nil {
		return result, err
	}
	result.Summary = summarized.Output

	// Step 4: publish or preview
	if err := p.publish(ctx, opts, result); err != nil {
		return result, err
	}

	result.Success = true
	p.logger.Info(ctx, "Pipeline completed in %s", time.Since(startTime).Round(time.Millisecond))
	return result, nil
}

// transcribe owns the whole transcription step so a cache hit skips
// splitting entirely and never creates temp files.
func (p *implPipeline) transcribe(ctx context.Context, opts Options, md audio.Metadata) (*transcriber.Result, error) {
	provider, err := p.deps.Resolve(ctx, opts.Provider)
	if err != nil {
		return nil, err
	}

	ceiling := audio.Ceiling(provider.Name(), p.cfg.Transcription.GroqLimitMB)

	// Splitting divides the probed duration into spans; without a
	// duration an oversized file cannot be brought under the ceiling.
	if audio.NeedsChunking(md, ceiling) && md.DurationSeconds <= 0 {
		return nil, apperror.ErrFileTooLarge(provider.Name(), md.SizeBytes, ceiling)
	}

	input := transcriptionInput{
		Path:      opts.AudioPath,
		Provider:  provider.Name(),
		SizeBytes: md.SizeBytes,
	}

	outcome, err := cache.Run(ctx, p.store, cache.StepTranscription, input, opts.NoCache,
		func(ctx context.Context) (*transcriber.Result, error) {
			chunks, err := p.deps.Analyzer.Split(ctx, opts.AudioPath, md, ceiling)
			if err != nil {
				return nil, err
			}
			defer p.deps.Analyzer.Cleanup(ctx, opts.AudioPath, chunks)

			return transcriber.New(provider, p.logger).Transcribe(ctx, chunks)
		})
	if err != nil {
		return nil, err
	}
	return outcome.Output, nil
}

// publish renders the block tree and either creates the remote page or,
// in dry-run mode, a plain-text preview of the identical tree.
func (p *implPipeline) publish(ctx context.Context, opts Options, result *Result) error {
	page := notion.BuildPage(opts.Title, result.Summary, result.Transcription)

	if opts.DocxPath != "" {
		if err := notion.RenderDocx(page, opts.DocxPath); err != nil {
			p.logger.Warn(ctx, "Docx export failed: %v", err)
		} else {
			p.logger.Info(ctx, "Docx written: %s", opts.DocxPath)
		}
	}

	if opts.DryRun {
		result.Preview = notion.Preview(page)
		return nil
	}

	databaseID := opts.DatabaseID
	if databaseID == "" {
		databaseID = p.cfg.Notion.DatabaseID
	}

	input := notionInput{DatabaseID: databaseID, Page: page}
	outcome, err := cache.Run(ctx, p.store, cache.StepNotion, input, opts.NoCache,
		func(ctx context.Context) (*notion.PageResult, error) {
			return p.deps.Publisher(databaseID).Publish(ctx, page)
		})
	if err != nil {
		return err
	}

	result.Notion = outcome.Output
	return nil
}
