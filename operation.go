// Package resilient provides composable fault-tolerance wrappers for running
// fallible operations under retry, backoff, fallback and timeout policies.
// It supports any result type using Go generics and is transport-agnostic:
// the engine only ever looks at an operation's success/failure outcome, never
// at its contents, unless the caller supplies an ErrorClassifier.
package resilient

import (
	"context"
)

// Operation is a zero-argument fallible operation. The retry, fallback and
// timeout wrappers invoke it repeatedly or conditionally and surface its
// outcome unchanged; no engine-specific error type is ever substituted for
// the operation's own failure.
//
// Example:
//
//	fetch := func() ([]byte, error) {
//	    return os.ReadFile("/var/lib/app/state.json")
//	}
//
//	data, err := retrier.Do(fetch)
type Operation[T any] func() (T, error)

// ContextOperation is an operation that may block on external I/O and should
// honor cancellation of the supplied context. It is the unit of work for the
// suspendable executors: DoContext, FallbackContext and Execute.
type ContextOperation[T any] func(ctx context.Context) (T, error)
