package audio

import "context"

// Analyzer probes audio files and splits oversized ones into chunks that
// fit a provider's upload ceiling.
type Analyzer interface {
	Probe(ctx context.Context, path string) (Metadata, error)
	Split(ctx context.Context, path string, md Metadata, ceilingBytes int64) ([]Chunk, error)
	Cleanup(ctx context.Context, originalPath string, chunks []Chunk)
}
