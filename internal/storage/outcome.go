package storage

import "github.com/google/uuid"

// Outcome is the success marker a job produces: the job's identity plus an
// optional sub-session holding the job's staged writes. A nil *Outcome in a
// batch result means the job was skipped (retry exhaustion) or had nothing
// to write; skips are excluded from the commit merge, never aborting it.
//
// Outcomes are collected in completion order. They carry their originating
// job id explicitly so no consumer has to rely on list position.
type Outcome struct {
	JobID   uuid.UUID
	Label   string
	Session Session
}

// Sessions filters the outcomes to the successful subset and extracts their
// sub-sessions, discarding skips and sessionless successes.
func Sessions(outcomes []*Outcome) []Session {
	sessions := make([]Session, 0, len(outcomes))
	for _, o := range outcomes {
		if o == nil || o.Session == nil {
			continue
		}
		sessions = append(sessions, o.Session)
	}
	return sessions
}
