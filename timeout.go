package resilient

import (
	"context"
	"log/slog"
)

// Execute runs op bounded by config.Timeout, racing it against the deadline.
// Whichever resolves first determines the outcome.
//
// On expiry the in-flight attempt is abandoned: its eventual result is
// discarded, and cancellation is best-effort through the derived context — a
// non-cooperative operation is not forcibly interrupted. If a fallback is
// configured it runs exactly once and its outcome replaces the bare timeout
// failure; otherwise ErrTimeout is returned.
//
// The deadline is never extended: if op is itself a retried composition
// whose remaining attempts would outlast the timeout, the timeout still
// fires on schedule.
func Execute[T any](ctx context.Context, op ContextOperation[T], config *ExecConfig[T]) (T, error) {
	var zero T

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	execCtx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	// Buffered so an abandoned attempt can deliver its result and exit.
	results := make(chan outcome, 1)
	go func() {
		value, err := op(execCtx)
		results <- outcome{value: value, err: err}
	}()

	select {
	case result := <-results:
		if result.err != nil {
			logger.Debug("operation failed before deadline",
				"error", result.err)
			return zero, result.err
		}
		return result.value, nil

	case <-execCtx.Done():
		// The caller's own context ending is not a timeout.
		if err := ctx.Err(); err != nil {
			logger.Warn("enclosing context done during bounded execution",
				"error", err)
			return zero, err
		}

		if config.Fallback != nil {
			logger.Warn("operation timed out, invoking fallback",
				"timeout", config.Timeout)
			return config.Fallback()
		}

		logger.Error("operation timed out with no fallback configured",
			"timeout", config.Timeout)
		return zero, ErrTimeout
	}
}
