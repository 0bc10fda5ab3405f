package internal

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
)

const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// RetryPolicy drives a Transport call to completion, retrying
// transient failures with exponential backoff.
//
// Retryable: connectivity failures, HTTP 429 and 5xx. Everything else
// (including 400/422, which indicate a request that cannot succeed by
// resending) is returned to the caller on the first attempt.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget including the first try.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration
	// Logger receives debug records for each retry decision. Optional.
	Logger *slog.Logger

	// Sleep waits for the backoff delay. Tests replace it to observe
	// delays without waiting; nil uses a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds a policy with the given budget and base delay,
// substituting defaults for non-positive values.
func NewRetryPolicy(maxAttempts int, baseDelay time.Duration, logger *slog.Logger) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    DefaultMaxDelay,
		Logger:      logger,
	}
}

// Do invokes send until it produces a non-retryable outcome or the
// attempt budget runs out. The final response is returned even when its
// status is a failure; classifying it is the caller's job. A nil
// response with a non-nil error means connectivity never recovered.
func (p *RetryPolicy) Do(ctx context.Context, send func(ctx context.Context) (*Response, error)) (*Response, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastResp *Response
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := p.nextDelay(attempt-1, lastResp)
			if p.Logger != nil {
				p.Logger.Debug("retrying request",
					"attempt", attempt,
					"max_attempts", attempts,
					"delay", delay)
			}
			if err := p.sleep(ctx, delay); err != nil {
				return nil, &pcerrors.NetworkError{Op: "retry backoff", Timeout: true, Err: err}
			}
		}

		resp, err := send(ctx)
		if err != nil {
			// Connectivity failure; retry unless the caller's context
			// is already done.
			lastResp, lastErr = nil, err
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		lastResp, lastErr = resp, nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// nextDelay computes the wait before the given retry (1-based).
// A Retry-After on the previous 429 response overrides the computed
// backoff; otherwise the delay grows exponentially with equal jitter.
func (p *RetryPolicy) nextDelay(retry int, prev *Response) time.Duration {
	if prev != nil && prev.StatusCode == http.StatusTooManyRequests {
		if retryAfter := RetryAfter(prev.Header); retryAfter > 0 {
			return retryAfter
		}
	}

	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	delay := base << (retry - 1)
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	// Equal jitter: keep half, randomize the rest to avoid thundering
	// herds of synchronized clients.
	half := delay / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func (p *RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
