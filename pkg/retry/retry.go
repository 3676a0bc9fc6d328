// Package retry wraps remote calls in exponential backoff. Every network
// call in the pipeline goes through Do; nothing below this package sleeps
// or re-attempts on its own.
package retry

import (
	"context"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/keithce/notion-voice-notes/internal/logger"
)

// Options controls the retry schedule. Zero values fall back to the
// defaults below.
type Options struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Retryable reports whether a failure is worth another attempt.
	// Nil means always retry.
	Retryable func(error) bool
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2
	}
	return o
}

// transientSignatures are message fragments that mark a failure as likely
// to succeed on retry: rate limiting, timeouts, common server errors.
var transientSignatures = []string{
	"rate limit",
	"429",
	"too many requests",
	"timeout",
	"econnreset",
	"econnrefused",
	"503",
	"502",
}

// IsTransient classifies an error by its message, case-insensitively.
// Dispatch components layer provider-specific overrides on top.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Do executes op up to opts.MaxAttempts times, sleeping between attempts
// with exponential backoff capped at opts.MaxDelay. Non-retryable errors
// and exhausted attempts surface the operation's own error, never a
// wrapper. Each failed attempt emits a warning with the attempt number
// and the computed delay.
func Do[T any](ctx context.Context, log logger.Logger, name string, opts Options, op func(ctx context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = opts.InitialDelay
	bo.MaxInterval = opts.MaxDelay
	bo.Multiplier = opts.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	attempt := 0
	wrapped := func() (T, error) {
		attempt++
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if opts.Retryable != nil && !opts.Retryable(err) {
			// Permanent unwraps back to the original error.
			return out, backoff.Permanent(err)
		}
		return out, err
	}

	notify := func(err error, delay time.Duration) {
		log.Warn(ctx, "%s attempt %d/%d failed, retrying in %s: %v", name, attempt, opts.MaxAttempts, delay, err)
	}

	return backoff.RetryNotifyWithData(
		wrapped,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(opts.MaxAttempts-1)), ctx),
		notify,
	)
}
