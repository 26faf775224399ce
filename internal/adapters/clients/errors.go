// Package clients provides the instrumented HTTP client used to reach the remote posts source.
package clients

import "errors"

// Transport-level failures. The acl package turns them into domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the request without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once every retry is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrServerStatus marks a 5xx answer. It is retried like a transport error.
	ErrServerStatus = errors.New("server error")
)
