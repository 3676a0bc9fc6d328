package transcriber

import (
	"context"
	"fmt"
	"strings"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/audio"
	"github.com/keithce/notion-voice-notes/pkg/retry"
)

// Transcribe sends every chunk to the provider in index order, one at a
// time. Ordering matters twice over: concatenation depends on it, and
// serialized calls are the safe default under provider rate limits. A
// chunk that still fails after retries aborts the whole step; partial
// transcripts are discarded.
func (t *implTranscriber) Transcribe(ctx context.Context, chunks []audio.Chunk) (*Result, error) {
	name := t.provider.Name()
	texts := make([]string, 0, len(chunks))
	var total float64

	for _, chunk := range chunks {
		t.logger.Info(ctx, "Transcribing chunk %d/%d via %s: %s", chunk.Index+1, len(chunks), name, chunk.Path)

		path := chunk.Path
		text, err := retry.Do(ctx, t.logger, fmt.Sprintf("%s transcription", name),
			retry.Options{Retryable: retry.IsTransient},
			func(ctx context.Context) (string, error) {
				return t.provider.TranscribeFile(ctx, path)
			})
		if err != nil {
			return nil, apperror.ErrTranscriptionFailed(name, err)
		}

		texts = append(texts, text)
		total += chunk.Span()
	}

	return &Result{
		Text:            strings.Join(texts, " "),
		DurationSeconds: total,
		Provider:        name,
	}, nil
}
