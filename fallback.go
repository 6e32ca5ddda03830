package resilient

import (
	"context"
	"log/slog"
)

// fallbackConfig holds the per-call settings for the fallback wrappers.
type fallbackConfig struct {
	logger *slog.Logger
}

// FallbackOption is a functional option for configuring fallback behavior.
type FallbackOption func(*fallbackConfig)

// WithFallbackLogger sets a custom logger for fallback transitions.
func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(c *fallbackConfig) {
		c.logger = logger
	}
}

func newFallbackConfig(opts []FallbackOption) *fallbackConfig {
	config := &fallbackConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Fallback runs primary and, if it fails, runs secondary exactly once,
// returning the secondary's outcome verbatim in place of the primary's
// failure. The primary completes fully before the secondary begins.
//
// The secondary is never retried here. To retry either operation, wrap it in
// a Retrier before passing it in:
//
//	retrier := resilient.NewRetrier[string](resilient.WithMaxAttempts(3))
//	value, err := resilient.Fallback(
//	    func() (string, error) { return retrier.Do(fetchLive) },
//	    fetchCached,
//	)
func Fallback[T any](primary, secondary Operation[T], opts ...FallbackOption) (T, error) {
	config := newFallbackConfig(opts)

	value, err := primary()
	if err == nil {
		return value, nil
	}

	config.logger.Warn("primary operation failed, invoking fallback",
		"error", err)
	return secondary()
}

// FallbackContext is the context-aware form of Fallback. Both operations
// receive ctx; if the primary fails because ctx is done, the secondary is
// still invoked once and will typically observe the same condition.
func FallbackContext[T any](
	ctx context.Context,
	primary, secondary ContextOperation[T],
	opts ...FallbackOption,
) (T, error) {
	config := newFallbackConfig(opts)

	value, err := primary(ctx)
	if err == nil {
		return value, nil
	}

	config.logger.Warn("primary operation failed, invoking fallback",
		"error", err)
	return secondary(ctx)
}
