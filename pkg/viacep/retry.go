package viacep

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy controls how transient lookup failures are retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts. 1 disables retries.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry; it doubles after
	// each attempt up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// JitterFraction randomizes each delay by up to ±fraction.
	JitterFraction float64
}

// DefaultRetryPolicy retries twice with a 500ms base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		JitterFraction: 0.25,
	}
}

type retryingClient struct {
	next   Client
	policy RetryPolicy
}

// NewRetryingClient wraps next so that transient failures (timeouts,
// refused or reset connections, 429 and 5xx answers) are retried with
// exponential backoff. ErrNotFound and other answers are returned as is.
func NewRetryingClient(next Client, policy RetryPolicy) Client {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = policy.InitialBackoff
	}
	return &retryingClient{next: next, policy: policy}
}

func (c *retryingClient) Lookup(ctx context.Context, cep string) (*Address, error) {
	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		addr, err := c.next.Lookup(ctx, cep)
		if err == nil {
			return addr, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) || attempt == c.policy.MaxAttempts-1 {
			return nil, lastErr
		}

		zap.L().Debug("viacep: retrying lookup",
			zap.String("cep", cep),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(c.policy.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := float64(p.InitialBackoff) * math.Pow(2, float64(attempt))
	if delay > float64(p.MaxBackoff) {
		delay = float64(p.MaxBackoff)
	}
	if p.JitterFraction > 0 {
		delay += (rand.Float64()*2 - 1) * delay * p.JitterFraction
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// IsTransient reports whether a lookup error is worth retrying.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}
