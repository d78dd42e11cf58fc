package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
)

// SleepFunc waits for the given duration or until the context is canceled.
// Injectable so retry behavior is deterministic in tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds how rate-limited requests are retried. Only the
// rate-limit status is treated as transient; every other error response is
// surfaced immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Fallback is the delay used when the server sends no Retry-After.
	Fallback time.Duration

	// Sleep performs the backoff wait. Defaults to a cancellable timer.
	Sleep SleepFunc
}

// DefaultRetryPolicy returns the policy used against the Airtable API.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.MaxRateLimitRetries,
		Fallback:    constants.RateLimitRetryDelay,
	}
}

// sleep runs the configured sleep function, defaulting to a timer that
// respects context cancellation.
func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.ErrCanceled
	case <-timer.C:
		return nil
	}
}

// retryDelay reads the server-provided retry delay from a rate-limit
// response, falling back to the policy default.
func (p RetryPolicy) retryDelay(resp *http.Response) time.Duration {
	if resp == nil {
		return p.Fallback
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return p.Fallback
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return p.Fallback
	}
	return time.Duration(seconds) * time.Second
}
