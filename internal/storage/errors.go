package storage

import "errors"

// Common storage errors used across backend implementations.
var (
	// ErrChunkNotFound is returned when a requested chunk or metadata
	// entry does not exist in the store.
	ErrChunkNotFound = errors.New("chunk not found")

	// ErrCommitConflict is returned when a referenced sub-session is
	// already closed, belongs to a different store, or stages a chunk that
	// collides with another session's staging. Fatal: surfaces to the
	// caller after all job execution completes.
	ErrCommitConflict = errors.New("commit conflict")

	// ErrSessionClosed is returned on writes through a closed session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrNotInitialized is returned when a store is used before
	// Initialize/Acquire.
	ErrNotInitialized = errors.New("store not initialized")
)
