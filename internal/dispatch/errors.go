package dispatch

import "errors"

// Common errors returned by the dispatch package.
var (
	// ErrRetryExhausted is returned by Retry when every attempt faulted.
	// The dispatcher downgrades it to a skip; it never aborts a batch.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrNoJobs is returned when a dispatch is requested with no jobs.
	ErrNoJobs = errors.New("no jobs to dispatch")
)
