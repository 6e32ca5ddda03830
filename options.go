package resilient

import (
	"context"
	"log/slog"
	"time"
)

// BackoffStrategy defines how the delay between attempts grows.
type BackoffStrategy string

const (
	// BackoffConstant uses the same delay between every attempt.
	BackoffConstant BackoffStrategy = "constant"

	// BackoffExponential grows the delay by a multiplier after each attempt,
	// optionally capped at MaxDelay.
	BackoffExponential BackoffStrategy = "exponential"

	// BackoffFibonacci grows the delay along the fibonacci sequence,
	// optionally capped at MaxDelay.
	BackoffFibonacci BackoffStrategy = "fibonacci"
)

// SleepFunc pauses for the given duration, returning early with the
// context's error if the context is done first. The retry executors use it
// for every backoff wait, so tests can substitute a deterministic clock.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryConfig holds the retry policy shared by the blocking and the
// context-aware executors. A config is immutable for the lifetime of a retry
// session; each session keeps its own attempt counter, so one config may be
// shared across concurrent sessions without locking.
type RetryConfig struct {
	// ErrorClassifier determines which errors should trigger retries.
	// Default: RetryAllClassifier (every failure is retryable except
	// context cancellation).
	ErrorClassifier ErrorClassifier

	// Logger for retry operations.
	// Default: slog.Default()
	Logger *slog.Logger

	// Sleep performs the backoff waits.
	// Default: a context-aware timer wait.
	Sleep SleepFunc

	// Strategy defines how delays grow between attempts.
	// Default: BackoffConstant
	Strategy BackoffStrategy

	// Delay is the base wait between attempts.
	// Default: 1 second
	Delay time.Duration

	// MaxDelay caps the computed delay for the exponential and fibonacci
	// strategies. Zero means uncapped.
	MaxDelay time.Duration

	// Multiplier is the per-attempt growth factor for the exponential
	// strategy: the delay after attempt N (1-based) is Delay * Multiplier^(N-1).
	// Default: 2.0 (doubling)
	Multiplier float64

	// MaxAttempts is the total attempt budget, including the initial attempt.
	// Values below 1 are normalized to 1 so the operation is always invoked
	// at least once.
	// Default: 3
	MaxAttempts int
}

// RetryOption is a functional option for configuring retry behavior.
type RetryOption func(*RetryConfig)

// WithMaxAttempts sets the total attempt budget, including the initial
// attempt. Values below 1 are normalized to 1.
//
// Example:
//
//	resilient.WithMaxAttempts(5) // Try up to 5 times total
func WithMaxAttempts(attempts int) RetryOption {
	return func(c *RetryConfig) {
		c.MaxAttempts = attempts
	}
}

// WithConstantBackoff configures a fixed delay between attempts.
//
// Example:
//
//	resilient.WithConstantBackoff(2 * time.Second)
//	// Delays: 2s, 2s, 2s, ...
func WithConstantBackoff(delay time.Duration) RetryOption {
	return func(c *RetryConfig) {
		c.Strategy = BackoffConstant
		c.Delay = delay
		c.MaxDelay = 0
	}
}

// WithExponentialBackoff configures exponentially growing delays, capped at
// maxDelay. Pass zero for maxDelay to grow without bound.
//
// Example:
//
//	resilient.WithExponentialBackoff(time.Second, 30*time.Second)
//	// With the default multiplier 2.0: 1s, 2s, 4s, 8s, 16s, 30s, 30s, ...
func WithExponentialBackoff(delay, maxDelay time.Duration) RetryOption {
	return func(c *RetryConfig) {
		c.Strategy = BackoffExponential
		c.Delay = delay
		c.MaxDelay = maxDelay
	}
}

// WithMultiplier sets the growth factor for the exponential strategy.
//
// Example:
//
//	resilient.WithMultiplier(1.5) // 50% growth per attempt
//	// With Delay=1s: 1s, 1.5s, 2.25s, 3.375s, ...
func WithMultiplier(multiplier float64) RetryOption {
	return func(c *RetryConfig) {
		c.Multiplier = multiplier
	}
}

// WithFibonacciBackoff configures delays that follow the fibonacci sequence,
// capped at maxDelay. Pass zero for maxDelay to grow without bound.
//
// Example:
//
//	resilient.WithFibonacciBackoff(time.Second, 30*time.Second)
//	// Delays: 1s, 1s, 2s, 3s, 5s, 8s, 13s, 21s, 30s, 30s, ...
func WithFibonacciBackoff(delay, maxDelay time.Duration) RetryOption {
	return func(c *RetryConfig) {
		c.Strategy = BackoffFibonacci
		c.Delay = delay
		c.MaxDelay = maxDelay
	}
}

// WithErrorClassifier sets a custom error classifier for retry decisions.
//
// Example:
//
//	resilient.WithErrorClassifier(resilient.TransientErrorClassifier{})
func WithErrorClassifier(classifier ErrorClassifier) RetryOption {
	return func(c *RetryConfig) {
		c.ErrorClassifier = classifier
	}
}

// WithRetryLogger sets a custom logger for retry operations.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	resilient.WithRetryLogger(logger)
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(c *RetryConfig) {
		c.Logger = logger
	}
}

// WithSleepFunc substitutes the wait primitive used between attempts.
// Intended for deterministic tests; production callers normally leave the
// default in place.
func WithSleepFunc(sleep SleepFunc) RetryOption {
	return func(c *RetryConfig) {
		c.Sleep = sleep
	}
}

// DefaultRetryConfig returns retry configuration with sensible defaults:
// 3 attempts with a constant 1 second delay and every failure retryable.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     3,
		Strategy:        BackoffConstant,
		Delay:           time.Second,
		Multiplier:      2.0,
		ErrorClassifier: DefaultErrorClassifier(),
		Logger:          slog.Default(),
		Sleep:           sleepContext,
	}
}

// ExecConfig bounds a single execution with a deadline and an optional
// fallback for the timeout case. It lives only for the duration of one
// Execute call.
type ExecConfig[T any] struct {
	// Timeout is the maximum duration the inner operation may run before it
	// is abandoned.
	Timeout time.Duration

	// Fallback, when set, is invoked exactly once (never retried) after a
	// timeout, and its outcome replaces the bare timeout failure.
	Fallback Operation[T]

	// Logger for timeout events.
	// Default: slog.Default()
	Logger *slog.Logger
}

// ExecOption is a functional option for configuring timeout-bounded
// execution.
type ExecOption[T any] func(*ExecConfig[T])

// WithExecFallback sets the operation to run when the deadline expires.
//
// Example:
//
//	config := resilient.NewExecConfig(500*time.Millisecond,
//	    resilient.WithExecFallback(func() (string, error) {
//	        return "cached value", nil
//	    }))
func WithExecFallback[T any](fallback Operation[T]) ExecOption[T] {
	return func(c *ExecConfig[T]) {
		c.Fallback = fallback
	}
}

// WithExecLogger sets a custom logger for timeout events.
func WithExecLogger[T any](logger *slog.Logger) ExecOption[T] {
	return func(c *ExecConfig[T]) {
		c.Logger = logger
	}
}

// NewExecConfig creates an execution configuration with the given timeout.
func NewExecConfig[T any](timeout time.Duration, opts ...ExecOption[T]) *ExecConfig[T] {
	config := &ExecConfig[T]{
		Timeout: timeout,
		Logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}
