package resilient

import (
	"math"
	"time"

	"github.com/sethvargo/go-retry"
)

// DelayAt returns the backoff delay applied after attempt i (0-based): the
// wait inserted between attempt i+1 and attempt i+2. It is a pure function
// of the config, so the blocking and context-aware executors compute
// identical schedules by construction.
//
// Constant: Delay for every gap. Exponential: Delay * Multiplier^i, clamped
// to MaxDelay when set. Fibonacci: Delay, Delay, then the sum of the two
// preceding delays, clamped the same way. No jitter is applied.
func (c *RetryConfig) DelayAt(i int) time.Duration {
	if i < 0 {
		i = 0
	}
	if c.Delay <= 0 {
		return 0
	}

	switch c.Strategy {
	case BackoffExponential:
		multiplier := c.Multiplier
		if multiplier <= 0 {
			multiplier = 2.0
		}
		delay := float64(c.Delay)
		for n := 0; n < i; n++ {
			delay *= multiplier
			if c.MaxDelay > 0 && delay >= float64(c.MaxDelay) {
				return c.MaxDelay
			}
			if delay >= math.MaxInt64 {
				return time.Duration(math.MaxInt64)
			}
		}
		return c.clamp(time.Duration(delay))

	case BackoffFibonacci:
		if i < 2 {
			return c.clamp(c.Delay)
		}
		prev, curr := c.Delay, c.Delay
		for n := 2; n <= i; n++ {
			next := prev + curr
			if next < curr { // overflow
				return c.clamp(time.Duration(math.MaxInt64))
			}
			prev, curr = curr, next
			if c.MaxDelay > 0 && curr >= c.MaxDelay {
				return c.MaxDelay
			}
		}
		return c.clamp(curr)

	default:
		return c.Delay
	}
}

// clamp applies the MaxDelay cap and floors the result at zero.
func (c *RetryConfig) clamp(d time.Duration) time.Duration {
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	if d < 0 {
		d = 0
	}
	return d
}

// newBackoff adapts the DelayAt schedule into a go-retry backoff stream
// bounded by the attempt budget. Each retry session gets a fresh stream;
// configs hold no per-session state.
// Note: the stream is consulted only between attempts, so a budget of
// MaxAttempts allows MaxAttempts-1 waits.
func (c *RetryConfig) newBackoff() retry.Backoff {
	attempt := 0
	schedule := retry.BackoffFunc(func() (time.Duration, bool) {
		delay := c.DelayAt(attempt)
		attempt++
		return delay, false
	})

	maxRetries := c.MaxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}

	return retry.WithMaxRetries(
		uint64(maxRetries), // #nosec G115 - normalized to [1, 1000] by NewRetrier
		schedule,
	)
}
