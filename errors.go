package resilient

import (
	"context"
	"errors"
	"fmt"
	"net"

	pkgerrors "github.com/JohnPlummer/jp-go-errors"
)

// ErrTimeout is returned by Execute when the deadline expires before the
// inner operation completes and no fallback is configured. It wraps
// context.DeadlineExceeded, so errors.Is(err, context.DeadlineExceeded)
// holds. Exhaustion of a retry budget is a distinct condition and surfaces
// the last operation failure instead.
var ErrTimeout = fmt.Errorf("operation timed out: %w", context.DeadlineExceeded)

// ErrorClassifier determines whether an error should trigger a retry.
// Implement this interface to customize retry behavior for your specific
// error types; the engine itself never inspects a failure's contents.
type ErrorClassifier interface {
	// IsRetryable returns true if the error represents a failure that
	// should be retried.
	IsRetryable(err error) bool
}

// RetryAllClassifier treats every non-nil failure as retryable. The failure
// is opaque to the engine: an operation's domain error may well wrap a
// context error from an inner per-call deadline while the retry session's
// own context is still live. Session cancellation is detected by the
// executors through their context, not by error identity.
type RetryAllClassifier struct{}

// IsRetryable implements ErrorClassifier.
func (RetryAllClassifier) IsRetryable(err error) bool {
	return err != nil
}

// TransientErrorClassifier retries only errors that look transient: rate
// limits, timeouts, and network timeouts. Everything else fails fast. Use it
// when a blanket retry-everything policy is too aggressive for the wrapped
// dependency.
type TransientErrorClassifier struct{}

// IsRetryable implements ErrorClassifier.
func (TransientErrorClassifier) IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are checked first: jp-go-errors considers
	// context.DeadlineExceeded a timeout, but retrying with a dead context
	// cannot succeed.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, pkgerrors.ErrRateLimited) {
		return true
	}
	if pkgerrors.IsTimeout(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// DefaultErrorClassifier provides the default retry policy: any failure is
// retryable up to the attempt budget.
func DefaultErrorClassifier() ErrorClassifier {
	return RetryAllClassifier{}
}
