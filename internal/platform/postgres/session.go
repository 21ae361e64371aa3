package postgres

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// session is a scoped, in-memory accumulation of uncommitted writes against
// a repository branch. The root session is opened by Acquire; each job forks
// its own sub-session. Nothing touches the database until commit.
type session struct {
	id    uuid.UUID
	store *Store

	mu     sync.Mutex
	closed bool
	chunks map[string][]byte
	meta   map[string][]byte
}

func newSession(store *Store) *session {
	return &session{
		id:     uuid.New(),
		store:  store,
		chunks: make(map[string][]byte),
		meta:   make(map[string][]byte),
	}
}

// ID implements storage.Session.
func (s *session) ID() uuid.UUID {
	return s.id
}

// Closed implements storage.Session.
func (s *session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *session) stageChunk(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrSessionClosed
	}
	s.chunks[key] = append([]byte(nil), data...)
	return nil
}

func (s *session) stageMeta(name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrSessionClosed
	}
	s.meta[name] = append([]byte(nil), value...)
	return nil
}

func (s *session) stagedChunk(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.chunks[key]
	return data, ok
}

func (s *session) stagedMeta(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.meta[name]
	return value, ok
}

// merge folds the sub-sessions into root. The operation is
// order-independent: staged entries are keyed, identical payloads for the
// same key coalesce, and differing payloads for the same key are a conflict
// regardless of merge order. Merged sub-sessions are closed; a sub-session
// that is already closed, or that belongs to a different store, fails the
// merge with storage.ErrCommitConflict.
func merge(root *session, subs []*session) error {
	for _, sub := range subs {
		if sub.store != root.store {
			return fmt.Errorf("%w: session %s belongs to a different store", storage.ErrCommitConflict, sub.id)
		}

		sub.mu.Lock()
		if sub.closed {
			sub.mu.Unlock()
			return fmt.Errorf("%w: session %s is already closed", storage.ErrCommitConflict, sub.id)
		}
		chunks := sub.chunks
		meta := sub.meta
		sub.closed = true
		sub.mu.Unlock()

		root.mu.Lock()
		for key, data := range chunks {
			if existing, ok := root.chunks[key]; ok && !bytes.Equal(existing, data) {
				root.mu.Unlock()
				return fmt.Errorf("%w: chunk %q staged with conflicting contents", storage.ErrCommitConflict, key)
			}
			root.chunks[key] = data
		}
		for name, value := range meta {
			if existing, ok := root.meta[name]; ok && !bytes.Equal(existing, value) {
				root.mu.Unlock()
				return fmt.Errorf("%w: metadata %q staged with conflicting contents", storage.ErrCommitConflict, name)
			}
			root.meta[name] = value
		}
		root.mu.Unlock()
	}
	return nil
}
