package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CallFunc performs one outbound attempt. The context it receives carries
// the per-attempt deadline and must be attached to the request.
type CallFunc func(ctx context.Context) (*http.Response, error)

// Policy wraps an idempotent outbound call with bounded retries and
// exponential backoff. It holds no network state of its own, so it can be
// exercised with a fake CallFunc.
type Policy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BackoffBase    time.Duration
	// Retryable decides per status whether an attempt may be consumed on a
	// retry. Nil means DefaultRetryable.
	Retryable func(status int) bool
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		AttemptTimeout: 30 * time.Second,
		BackoffBase:    time.Second,
		Retryable:      DefaultRetryable,
	}
}

// DefaultRetryable retries upstream rate limiting and server-side failures.
// Every other status, success or client error, resolves the call.
func DefaultRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Execute runs call until it resolves, retries are exhausted, or ctx is
// cancelled. It returns the final status and body; statuses the policy
// considers retryable can still be returned once attempts run out, and the
// caller maps them onto its own error taxonomy. Transport failures and
// per-attempt timeouts come back as errors, the latter wrapping
// context.DeadlineExceeded.
func (p Policy) Execute(ctx context.Context, call CallFunc) (int, []byte, error) {
	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}

	var (
		lastStatus int
		lastBody   []byte
		lastErr    error
	)

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.BackoffBase<<(attempt-1)); err != nil {
				return 0, nil, err
			}
		}

		status, body, err := p.attempt(ctx, call)
		if err != nil {
			if ctx.Err() != nil {
				// Outer cancellation skips the remaining retries.
				return 0, nil, ctx.Err()
			}
			lastStatus, lastBody, lastErr = 0, nil, err
			continue
		}

		if !retryable(status) {
			return status, body, nil
		}
		lastStatus, lastBody, lastErr = status, body, nil
	}

	if lastErr != nil {
		return 0, nil, fmt.Errorf("retries exhausted after %d attempts: %w", p.MaxAttempts, lastErr)
	}
	return lastStatus, lastBody, nil
}

func (p Policy) attempt(ctx context.Context, call CallFunc) (int, []byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()

	resp, err := call(attemptCtx)
	if err != nil {
		return 0, nil, p.classify(attemptCtx, ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, p.classify(attemptCtx, ctx, err)
	}
	return resp.StatusCode, body, nil
}

// classify maps an attempt-scoped deadline onto context.DeadlineExceeded so
// callers can distinguish timeouts from other transport failures.
func (p Policy) classify(attemptCtx, outer context.Context, err error) error {
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && outer.Err() == nil {
		return fmt.Errorf("attempt timed out after %s: %w", p.AttemptTimeout, context.DeadlineExceeded)
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
