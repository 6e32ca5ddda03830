package resilient

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Retrier runs operations under a retry policy with configurable backoff.
// It offers a blocking engine (Do) and a context-aware engine (DoContext);
// both consume the same backoff schedule, so for the same config and failure
// sequence they make identical attempt and delay decisions.
type Retrier[T any] struct {
	config     *RetryConfig
	logger     *slog.Logger
	classifier ErrorClassifier
	sleep      SleepFunc
	stats      *retryStats
}

// retryStats tracks retry operation statistics.
type retryStats struct {
	mu              sync.RWMutex
	totalAttempts   int64
	totalRetries    int64
	totalSuccesses  int64
	totalFailures   int64
	lastAttemptTime time.Time
	lastError       error
}

func (s *retryStats) recordAttempt(attempt int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalAttempts++
	if attempt > 1 {
		s.totalRetries++
	}
	s.lastAttemptTime = time.Now()
}

func (s *retryStats) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalSuccesses++
}

func (s *retryStats) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalFailures++
	s.lastError = err
}

// NewRetrier creates a retrier from the default config and the provided
// options. Malformed values are normalized rather than rejected: an attempt
// budget below 1 becomes 1, so the operation is always invoked at least
// once, and budgets above 1000 are capped.
//
// Example:
//
//	retrier := resilient.NewRetrier[string](
//	    resilient.WithMaxAttempts(5),
//	    resilient.WithExponentialBackoff(time.Second, 30*time.Second),
//	)
func NewRetrier[T any](opts ...RetryOption) *Retrier[T] {
	config := DefaultRetryConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.ErrorClassifier == nil {
		config.ErrorClassifier = DefaultErrorClassifier()
	}
	if config.Sleep == nil {
		config.Sleep = sleepContext
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.MaxAttempts > 1000 {
		config.MaxAttempts = 1000
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}

	return &Retrier[T]{
		config:     config,
		logger:     config.Logger,
		classifier: config.ErrorClassifier,
		sleep:      config.Sleep,
		stats:      &retryStats{},
	}
}

// Do runs op up to MaxAttempts times, blocking the calling goroutine during
// backoff waits. On success the value is returned immediately with no
// trailing delay; on exhaustion the failure from the final attempt is
// returned, earlier failures are discarded.
func (r *Retrier[T]) Do(op Operation[T]) (T, error) {
	return r.DoContext(context.Background(), func(context.Context) (T, error) {
		return op()
	})
}

// DoContext runs op under the same policy as Do, with context-aware waits.
// Cancellation takes effect at the next suspension point: before an attempt
// starts or during a backoff wait. A success produced by an in-flight
// attempt is honored even if ctx is cancelled while it completes.
func (r *Retrier[T]) DoContext(ctx context.Context, op ContextOperation[T]) (T, error) {
	var zero T

	// Check whether the context is already done before the first attempt.
	if err := ctx.Err(); err != nil {
		r.logger.Warn("context already done before first attempt (expected condition)",
			"error", err)
		return zero, err
	}

	backoff := r.config.newBackoff()

	for attempt := 1; ; attempt++ {
		// Check whether the session context is done before each attempt.
		if err := ctx.Err(); err != nil {
			r.logger.Warn("context done before retry attempt (expected condition)",
				"attempt", attempt,
				"error", err)
			r.stats.recordFailure(err)
			return zero, err
		}

		r.stats.recordAttempt(attempt)

		value, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("operation succeeded after retry",
					"attempts", attempt)
			}
			r.stats.recordSuccess()
			return value, nil
		}

		if !r.classifier.IsRetryable(err) {
			r.logger.Debug("non-retryable error, giving up",
				"error", err,
				"attempts", attempt)
			r.stats.recordFailure(err)
			return zero, err
		}

		delay, exhausted := backoff.Next()
		if exhausted {
			r.logger.Warn("operation failed after all attempts",
				"attempts", attempt,
				"error", err)
			r.stats.recordFailure(err)
			return zero, err
		}

		r.logger.Debug("retrying operation after delay",
			"attempt", attempt,
			"delay", delay,
			"error", err)

		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			r.logger.Warn("context done during backoff wait",
				"attempt", attempt,
				"error", sleepErr)
			r.stats.recordFailure(sleepErr)
			return zero, sleepErr
		}
	}
}

// Stats returns a snapshot of retry statistics across all sessions run
// through this retrier. Thread-safe.
func (r *Retrier[T]) Stats() RetryStats {
	r.stats.mu.RLock()
	defer r.stats.mu.RUnlock()

	return RetryStats{
		TotalAttempts:   r.stats.totalAttempts,
		TotalRetries:    r.stats.totalRetries,
		TotalSuccesses:  r.stats.totalSuccesses,
		TotalFailures:   r.stats.totalFailures,
		LastAttemptTime: r.stats.lastAttemptTime,
		LastError:       r.stats.lastError,
	}
}

// RetryStats holds statistics about retry operations.
type RetryStats struct {
	// TotalAttempts is the total number of attempts made (including initial and retries)
	TotalAttempts int64

	// TotalRetries is the number of retry attempts (not including initial attempts)
	TotalRetries int64

	// TotalSuccesses is the number of successful operations
	TotalSuccesses int64

	// TotalFailures is the number of failed operations (after all retries exhausted)
	TotalFailures int64

	// LastAttemptTime is the time of the last attempt
	LastAttemptTime time.Time

	// LastError is the last error encountered (if any)
	LastError error
}

// sleepContext is the default SleepFunc: it waits for d or until ctx is
// done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
