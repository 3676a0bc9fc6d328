package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/audio"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/summarizer"
	"github.com/keithce/notion-voice-notes/internal/transcriber"
)

// RunStep re-executes one step standalone, sourcing its input from the
// preceding step's cached output. Missing upstream entries surface as a
// typed no-upstream-cache error, never a crash.
func (p *implPipeline) RunStep(ctx context.Context, step cache.Step, opts Options) (*Result, error) {
	// The point of a replay is to re-run the step, not to read its own
	// prior result back.
	opts.NoCache = true
	result := &Result{AudioFile: opts.AudioPath}

	switch step {
	case cache.StepAudio:
		return p.replayAudio(ctx, opts, result)
	case cache.StepTranscription:
		return p.replayTranscription(ctx, opts, result)
	case cache.StepSummarization:
		return p.replaySummarization(ctx, opts, result)
	case cache.StepNotion:
		return p.replayNotion(ctx, opts, result)
	default:
		return result, apperror.ErrInvalidArgument(fmt.Sprintf("unknown step %q", step))
	}
}

func (p *implPipeline) replayAudio(ctx context.Context, opts Options, result *Result) (*Result, error) {
	if opts.AudioPath == "" {
		return result, apperror.ErrInvalidArgument("the audio step needs an audio file argument")
	}

	outcome, err := cache.Run(ctx, p.store, cache.StepAudio, audioInput{Path: opts.AudioPath}, true,
		func(ctx context.Context) (audio.Metadata, error) {
			return p.deps.Analyzer.Probe(ctx, opts.AudioPath)
		})
	if err != nil {
		return result, err
	}

	md := outcome.Output
	result.Audio = &md
	result.Success = true
	return result, nil
}

func (p *implPipeline) replayTranscription(ctx context.Context, opts Options, result *Result) (*Result, error) {
	entry, ok := cache.Read[audio.Metadata](ctx, p.store, cache.StepAudio)
	if !ok {
		return result, apperror.ErrNoUpstreamCache(string(cache.StepAudio))
	}

	var in audioInput
	if err := json.Unmarshal(entry.Input, &in); err != nil || in.Path == "" {
		return result, apperror.ErrNoUpstreamCache(string(cache.StepAudio))
	}

	opts.AudioPath = in.Path
	result.AudioFile = in.Path
	result.Audio = &entry.Output

	tr, err := p.transcribe(ctx, opts, entry.Output)
	if err != nil {
		return result, err
	}
	result.Transcription = tr
	result.Success = true
	return result, nil
}

func (p *implPipeline) replaySummarization(ctx context.Context, opts Options, result *Result) (*Result, error) {
	entry, ok := cache.Read[*transcriber.Result](ctx, p.store, cache.StepTranscription)
	if !ok || entry.Output == nil {
		return result, apperror.ErrNoUpstreamCache(string(cache.StepTranscription))
	}
	tr := entry.Output
	result.Transcription = tr

	outcome, err := cache.Run(ctx, p.store, cache.StepSummarization, summarizationInput{Transcript: tr.Text}, true,
		func(ctx context.Context) (*summarizer.Result, error) {
			return p.deps.Summarizer.Summarize(ctx, tr.Text)
		})
	if err != nil {
		return result, err
	}

	result.Summary = outcome.Output
	result.Success = true
	return result, nil
}

func (p *implPipeline) replayNotion(ctx context.Context, opts Options, result *Result) (*Result, error) {
	sumEntry, ok := cache.Read[*summarizer.Result](ctx, p.store, cache.StepSummarization)
	if !ok || sumEntry.Output == nil {
		return result, apperror.ErrNoUpstreamCache(string(cache.StepSummarization))
	}
	trEntry, ok := cache.Read[*transcriber.Result](ctx, p.store, cache.StepTranscription)
	if !ok || trEntry.Output == nil {
		return result, apperror.ErrNoUpstreamCache(string(cache.StepTranscription))
	}

	result.Summary = sumEntry.Output
	result.Transcription = trEntry.Output

	if err := p.publish(ctx, opts, result); err != nil {
		return result, err
	}
	result.Success = true
	return result, nil
}
