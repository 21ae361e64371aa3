package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// Job is one unit of per-tile work. The dispatcher consumes jobs opaquely:
// it never inspects what Process writes, only whether the attempt faulted.
type Job interface {
	// ID returns the job's unique identifier.
	ID() uuid.UUID

	// Label returns a short human-readable tag for logs and the batch
	// result log.
	Label() string

	// Process executes the job's work against the shared array handle.
	// A returned error is a transient fault and triggers a retry. A nil
	// outcome with a nil error means the job completed with nothing to
	// write; completed attempts are never retried, even when they report
	// an application-level failure through the outcome itself.
	Process(ctx context.Context, array storage.Array, debug bool) (*storage.Outcome, error)
}
