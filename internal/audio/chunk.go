package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/keithce/notion-voice-notes/internal/apperror"
)

// DefaultCeilingBytes is the upload limit both providers enforce on free
// tiers: 25 MiB.
const DefaultCeilingBytes int64 = 25 * 1024 * 1024

// Ceiling resolves the upload size ceiling for a provider. OpenAI is
// fixed; Groq accepts a positive megabyte override for developer tier
// accounts (0 means unset).
func Ceiling(provider string, groqLimitMB int) int64 {
	if provider == "groq" && groqLimitMB > 0 {
		return int64(groqLimitMB) * 1024 * 1024
	}
	return DefaultCeilingBytes
}

// NeedsChunking reports whether the file exceeds the provider ceiling.
func NeedsChunking(md Metadata, ceilingBytes int64) bool {
	return md.SizeBytes > ceilingBytes
}

// ChunkCount returns how many chunks the file must be split into, at
// least 1.
func ChunkCount(md Metadata, ceilingBytes int64) int {
	if md.SizeBytes <= ceilingBytes {
		return 1
	}
	count := md.SizeBytes / ceilingBytes
	if md.SizeBytes%ceilingBytes != 0 {
		count++
	}
	return int(count)
}

type span struct {
	start float64
	end   float64
}

// planSpans divides [0, duration] into count equal spans. The final span
// ends at exactly duration so rounding never drops trailing audio.
func planSpans(duration float64, count int) []span {
	spans := make([]span, count)
	step := duration / float64(count)
	for i := 0; i < count; i++ {
		spans[i] = span{start: float64(i) * step, end: float64(i+1) * step}
	}
	spans[count-1].end = duration
	return spans
}

// Split returns the chunks to transcribe. When the file fits under the
// ceiling the result is a single chunk at the original path and no files
// are created. Otherwise each span is cut into an independent file in a
// fresh temporary directory; the first failed cut aborts the whole
// operation and removes everything already written.
func (a *implAnalyzer) Split(ctx context.Context, path string, md Metadata, ceilingBytes int64) ([]Chunk, error) {
	count := ChunkCount(md, ceilingBytes)
	if count == 1 {
		return []Chunk{{
			Path:         path,
			Index:        0,
			StartSeconds: 0,
			EndSeconds:   md.DurationSeconds,
		}}, nil
	}

	if err := a.executor.LookPath("ffmpeg"); err != nil {
		return nil, apperror.ErrToolNotInstalled("ffmpeg")
	}

	tempDir, err := os.MkdirTemp("", "voice-notes-chunks-*")
	if err != nil {
		return nil, apperror.ErrToolFailed("ffmpeg", fmt.Errorf("create temp dir: %w", err))
	}

	a.logger.Info(ctx, "Splitting %s into %d chunks (size %d > ceiling %d)",
		path, count, md.SizeBytes, ceilingBytes)

	ext := filepath.Ext(path)
	chunks := make([]Chunk, 0, count)

	for i, sp := range planSpans(md.DurationSeconds, count) {
		chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%03d%s", i, ext))
		args := []string{
			"-y",
			"-i", path,
			"-ss", formatSeconds(sp.start),
			"-t", formatSeconds(sp.end - sp.start),
			"-c", "copy",
			chunkPath,
		}

		if _, err := a.executor.Execute(ctx, "ffmpeg", args...); err != nil {
			os.RemoveAll(tempDir)
			return nil, apperror.ErrToolFailed("ffmpeg", fmt.Errorf("split chunk %d: %w", i, err))
		}

		chunks = append(chunks, Chunk{
			Path:         chunkPath,
			Index:        i,
			StartSeconds: sp.start,
			EndSeconds:   sp.end,
		})
	}

	return chunks, nil
}

// Cleanup removes split chunk files and their temp directory. The single
// chunk pointing at the original recording is never touched. Deletion
// errors are logged and swallowed; cleanup must not fail the pipeline.
func (a *implAnalyzer) Cleanup(ctx context.Context, originalPath string, chunks []Chunk) {
	if len(chunks) == 0 {
		return
	}
	if len(chunks) == 1 && chunks[0].Path == originalPath {
		return
	}

	for _, c := range chunks {
		if err := os.Remove(c.Path); err != nil {
			a.logger.Warn(ctx, "Failed to remove chunk %s: %v", c.Path, err)
		}
	}
	if dir := filepath.Dir(chunks[0].Path); dir != "." {
		if err := os.Remove(dir); err != nil {
			a.logger.Debug(ctx, "Chunk dir not removed: %v", err)
		}
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
