package cache

import (
	"context"
	"time"
)

// Outcome wraps a step result with its provenance.
type Outcome[T any] struct {
	Output    T
	Duration  time.Duration
	FromCache bool
}

// Run executes one pipeline step through the cache. Unless bypass is set,
// a stored entry whose input fingerprint matches the current input is
// returned immediately with its recorded duration. Otherwise fn runs; a
// success is persisted (a write failure only warns), a failure is never
// written.
func Run[T any](ctx context.Context, s *Store, step Step, input any, bypass bool, fn func(ctx context.Context) (T, error)) (Outcome[T], error) {
	fp := Fingerprint(input)

	if !bypass {
		if entry, ok := Read[T](ctx, s, step); ok && entry.Fingerprint == fp {
			s.logger.Info(ctx, "Step %s: using cached result from %s", step, entry.Timestamp.Format(time.RFC3339))
			return Outcome[T]{
				Output:    entry.Output,
				Duration:  time.Duration(entry.DurationMS) * time.Millisecond,
				FromCache: true,
			}, nil
		}
	}

	start := time.Now()
	out, err := fn(ctx)
	if err != nil {
		return Outcome[T]{}, err
	}
	elapsed := time.Since(start)

	if err := Write(ctx, s, step, input, out, elapsed); err != nil {
		s.logger.Warn(ctx, "Step %s: result not cached: %v", step, err)
	}

	return Outcome[T]{Output: out, Duration: elapsed}, nil
}
