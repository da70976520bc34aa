package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider throttled the request.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable, timed
// out, or rejected the call.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// IsUnavailable reports whether err means the model could not be queried.
func IsUnavailable(err error) bool {
	var unavail *ErrProviderUnavailable
	var rl *ErrRateLimit
	return errors.As(err, &unavail) || errors.As(err, &rl)
}
