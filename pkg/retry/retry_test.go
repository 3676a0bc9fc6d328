package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/keithce/notion-voice-notes/internal/logger"
)

// fastOpts keeps test retries effectively instant.
var fastOpts = Options{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
	Multiplier:   2,
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), logger.NewNop(), "op", fastOpts,
		func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), logger.NewNop(), "op", fastOpts,
		func(ctx context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("rate limit exceeded")
			}
			return 42, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %d, want 42", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttemptsAndSurfacesOriginalError(t *testing.T) {
	cause := errors.New("request timeout")
	calls := 0
	opts := fastOpts
	opts.Retryable = IsTransient

	_, err := Do(context.Background(), logger.NewNop(), "op", opts,
		func(ctx context.Context) (string, error) {
			calls++
			return "", cause
		})

	if calls != opts.MaxAttempts {
		t.Errorf("calls = %d, want %d", calls, opts.MaxAttempts)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want the operation's own error", err)
	}
}

func TestDoStopsImmediatelyOnNonRetryableError(t *testing.T) {
	cause := errors.New("invalid api key")
	calls := 0
	opts := fastOpts
	opts.Retryable = IsTransient

	_, err := Do(context.Background(), logger.NewNop(), "op", opts,
		func(ctx context.Context) (string, error) {
			calls++
			return "", cause
		})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want the original error, not a wrapper", err)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Do(ctx, logger.NewNop(), "op", fastOpts,
		func(ctx context.Context) (string, error) {
			calls++
			cancel()
			return "", errors.New("503 service unavailable")
		})

	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Rate Limit exceeded"), true},
		{errors.New("HTTP 429 Too Many Requests"), true},
		{errors.New("dial tcp: i/o timeout"), true},
		{errors.New("read: ECONNRESET"), true},
		{errors.New("connect: econnrefused"), true},
		{errors.New("upstream returned 503"), true},
		{errors.New("bad gateway (502)"), true},
		{errors.New("invalid api key"), false},
		{errors.New("file not found"), false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	want := Options{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2}

	if got.MaxAttempts != want.MaxAttempts || got.InitialDelay != want.InitialDelay ||
		got.MaxDelay != want.MaxDelay || got.Multiplier != want.Multiplier {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}
}

func TestDoReportsAttemptNumbers(t *testing.T) {
	// Sanity check that exhaustion with nil Retryable still retries.
	calls := 0
	_, err := Do(context.Background(), logger.NewNop(), "op", fastOpts,
		func(ctx context.Context) (string, error) {
			calls++
			return "", fmt.Errorf("attempt %d failed", calls)
		})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if calls != fastOpts.MaxAttempts {
		t.Errorf("calls = %d, want %d", calls, fastOpts.MaxAttempts)
	}
}
