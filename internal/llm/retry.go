package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// retryVerdict says what to do after a failed attempt.
type retryVerdict int

const (
	giveUp retryVerdict = iota
	tryAgain
	tryAgainOnce // malformed output: one more chance per call
)

// RetryProvider re-issues transient failures with exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. MaxAttempts below one means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	reshaped := false
	attempt := 0
	for {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		attempt++
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}
		switch verdictFor(err) {
		case giveUp:
			return nil, err
		case tryAgainOnce:
			if reshaped {
				return nil, err
			}
			reshaped = true
		}

		if waitErr := sleepCtx(ctx, r.config.wait(attempt-1, err)); waitErr != nil {
			return nil, waitErr
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func verdictFor(err error) retryVerdict {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		auth    *ErrAuth
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &auth):
		return giveUp
	case errors.As(err, &maxTok):
		// A bigger answer will not fit on the next try either.
		return giveUp
	case errors.As(err, &invalid):
		return tryAgainOnce
	default:
		return tryAgain
	}
}

// wait returns the pause before retry number attempt (zero based). A
// server-supplied Retry-After wins over the computed backoff.
func (c RetryConfig) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(c.InitialWait)
	for range attempt {
		d *= c.Multiplier
		if c.MaxWait > 0 && d >= float64(c.MaxWait) {
			break
		}
	}
	if c.MaxWait > 0 {
		d = min(d, float64(c.MaxWait))
	}

	jitter := 0.8 + 0.4*rand.Float64()
	return time.Duration(max(d*jitter, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
