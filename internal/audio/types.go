package audio

// Metadata holds the probed properties of a source audio file. Created
// once per run and never mutated.
type Metadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Format          string  `json:"format"`
	BitRate         int64   `json:"bit_rate"`
	Channels        int     `json:"channels"`
	SampleRate      int     `json:"sample_rate"`
	SizeBytes       int64   `json:"size_bytes"`
}

// Chunk is a contiguous sub-range of the recording. Index order is
// significant: transcript concatenation depends on it.
type Chunk struct {
	Path         string  `json:"path"`
	Index        int     `json:"index"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// Span returns the chunk's covered duration in seconds.
func (c Chunk) Span() float64 {
	return c.EndSeconds - c.StartSeconds
}
