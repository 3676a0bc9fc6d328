// Package cache persists each pipeline step's input, output and duration
// to one JSON file per step, letting later runs reuse prior results and
// letting any single step be replayed standalone against its upstream
// step's recorded output.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lukechampine.com/blake3"

	"github.com/keithce/notion-voice-notes/internal/logger"
)

// Step names the four cacheable pipeline stages.
type Step string

const (
	StepAudio         Step = "audio"
	StepTranscription Step = "transcription"
	StepSummarization Step = "summarization"
	StepNotion        Step = "notion"
)

// Steps lists all stages in pipeline order.
var Steps = []Step{StepAudio, StepTranscription, StepSummarization, StepNotion}

// Upstream returns the step whose cached output feeds the given step's
// input, or "" for the first step.
func Upstream(step Step) Step {
	for i, s := range Steps {
		if s == step && i > 0 {
			return Steps[i-1]
		}
	}
	return ""
}

// Entry is the durable record of one step execution. Input is kept both
// verbatim (for inspection) and as a fingerprint (for hit checks).
type Entry[T any] struct {
	Timestamp   time.Time       `json:"timestamp"`
	Input       json.RawMessage `json:"input"`
	Fingerprint string          `json:"fingerprint"`
	Output      T               `json:"output"`
	DurationMS  int64           `json:"duration_ms"`
}

// Store is a single-directory cache, one file per step. It is not safe
// for concurrent processes; last writer wins.
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, log logger.Logger) *Store {
	return &Store{dir: dir, logger: log}
}

func (s *Store) entryPath(step Step) string {
	return filepath.Join(s.dir, string(step)+".json")
}

// Fingerprint returns the blake3 hash of the canonical JSON encoding of
// the step input. All four steps use the same hit rule: stored
// fingerprint equals current fingerprint.
func Fingerprint(input any) string {
	data, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Read loads the entry for a step. A missing, unreadable or unparseable
// file is reported as absent, never as an error: cache corruption must
// degrade to "no cache".
func Read[T any](ctx context.Context, s *Store, step Step) (*Entry[T], bool) {
	data, err := os.ReadFile(s.entryPath(step))
	if err != nil {
		return nil, false
	}

	var entry Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn(ctx, "Cache entry for %s is corrupt, treating as absent: %v", step, err)
		return nil, false
	}
	return &entry, true
}

// Write persists a step's execution record, overwriting any prior entry.
func Write[T any](ctx context.Context, s *Store, step Step, input any, output T, duration time.Duration) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	rawInput, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode cache input: %w", err)
	}

	entry := Entry[T]{
		Timestamp:   time.Now().UTC(),
		Input:       rawInput,
		Fingerprint: Fingerprint(input),
		Output:      output,
		DurationMS:  duration.Milliseconds(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := os.WriteFile(s.entryPath(step), data, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Clear removes the named entries (all of them when steps is empty) and
// returns which ones actually existed before deletion.
func (s *Store) Clear(ctx context.Context, steps ...Step) []Step {
	if len(steps) == 0 {
		steps = Steps
	}

	var removed []Step
	for _, step := range steps {
		path := s.entryPath(step)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn(ctx, "Failed to remove cache entry %s: %v", path, err)
			continue
		}
		removed = append(removed, step)
	}
	return removed
}

// Status describes one step's cache state for listing.
type Status struct {
	Step       Step
	Cached     bool
	Timestamp  time.Time
	DurationMS int64
}

// List reports the cache state of every step. Absent entries are listed
// as not cached, never as errors.
func (s *Store) List(ctx context.Context) []Status {
	statuses := make([]Status, 0, len(Steps))
	for _, step := range Steps {
		entry, ok := Read[json.RawMessage](ctx, s, step)
		status := Status{Step: step, Cached: ok}
		if ok {
			status.Timestamp = entry.Timestamp
			status.DurationMS = entry.DurationMS
		}
		statuses = append(statuses, status)
	}
	return statuses
}
