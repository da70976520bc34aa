package llm

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 30 * time.Second

// TimeoutProvider is a decorator that bounds every call with a deadline.
// A call that runs out of time is reported as *ErrProviderUnavailable.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so each Generate call gets at most d.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !IsUnavailable(err) {
			return nil, &ErrProviderUnavailable{Err: err}
		}
		return nil, err
	}
	return resp, nil
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
