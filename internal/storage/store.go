package storage

import (
	"context"

	"github.com/google/uuid"
)

// Array is the shared mutable chunked-array handle jobs write through. The
// backend must tolerate concurrent writers touching disjoint chunks without
// external coordination; the dispatcher adds no locking of its own.
type Array interface {
	// WriteChunk stores one chunk's bytes under its key.
	WriteChunk(ctx context.Context, key string, data []byte) error

	// ReadChunk returns a chunk's bytes, or ErrChunkNotFound.
	ReadChunk(ctx context.Context, key string) ([]byte, error)

	// PutMeta stores named array metadata (shape, chunking, dtype).
	PutMeta(ctx context.Context, name string, value []byte) error

	// GetMeta returns named array metadata, or ErrChunkNotFound.
	GetMeta(ctx context.Context, name string) ([]byte, error)
}

// Session is a scoped accumulation of uncommitted writes against a
// transactional store. A session is owned exclusively by the component that
// opened it until it is merged or committed.
type Session interface {
	// ID identifies the session.
	ID() uuid.UUID

	// Closed reports whether the session has been merged or committed and
	// can no longer accept writes.
	Closed() bool
}

// Forkable is implemented by transactional array handles. Fork opens an
// independent sub-session whose writes stay staged until the session is
// merged into the root at commit time. Non-transactional handles do not
// implement Forkable; their writes are durable immediately.
type Forkable interface {
	Fork(ctx context.Context) (Session, Array, error)
}

// Committer consumes job outcomes: successful outcomes may carry a session
// to merge.
type Committer interface {
	// Commit reconciles the sub-sessions carried by the outcomes into one
	// atomic commit with the given message. Outcomes without a session
	// (skips, sessionless successes) are excluded from the merge; they
	// never cause an abort.
	Commit(ctx context.Context, message string, outcomes []*Outcome) error
}

// Store wraps a backing array store behind the initialize/acquire/commit
// contract.
type Store interface {
	Committer

	// Initialize prepares the target location, destroying prior content.
	// A "does not exist yet" condition is success.
	Initialize(ctx context.Context) error

	// Acquire returns the batch's array handle plus a release function.
	// The handle is held for the batch's full lifetime and released
	// exactly once after commit, on every exit path.
	Acquire(ctx context.Context) (Array, func() error, error)
}
