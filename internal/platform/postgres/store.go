package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver

	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/logger"
	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// Store is the transactional backend: a named repository inside Postgres.
// Job sessions stage writes in memory; Commit merges them into the root
// session and lands everything in one atomic SQL transaction.
type Store struct {
	db     *sql.DB
	repo   string
	branch string

	mu   sync.Mutex
	root *session
}

var _ storage.Store = (*Store)(nil)

// Open connects to the database named by url (credentials ride the URL) and
// returns a Store for the given repository and branch.
func Open(ctx context.Context, url, repo, branch string) (*Store, error) {
	if repo == "" {
		return nil, fmt.Errorf("transactional storage requires a repository name")
	}
	if branch == "" {
		branch = "main"
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db: db, repo: repo, branch: branch}, nil
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize (re)creates the named repository, destroying any prior
// repository of the same name. The schema itself is managed by embedded
// migrations and shared across repositories.
func (s *Store) Initialize(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := migrate(ctx, s.db); err != nil {
		return err
	}

	err := runInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, table := range []string{"datacube_chunks", "datacube_meta", "datacube_commits"} {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE repo = $1`, table), s.repo,
			); err != nil {
				return fmt.Errorf("failed to destroy prior repository %q: %w", s.repo, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("initialized repository", "repo", s.repo, "branch", s.branch)
	return nil
}

// Acquire opens a writable root session against the configured branch and
// returns its array handle. The release function closes the root session;
// it is safe to call after Commit has already closed it.
func (s *Store) Acquire(ctx context.Context) (storage.Array, func() error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root != nil && !s.root.Closed() {
		return nil, nil, fmt.Errorf("root session already open for repo %q", s.repo)
	}

	root := newSession(s)
	s.root = root

	release := func() error {
		root.close()
		return nil
	}
	return &array{sess: root}, release, nil
}

// Commit filters the outcomes to the successful subset, merges every
// carried sub-session into the root session, and atomically commits the
// merged state with the given message. Skipped outcomes never participate.
// A closed or foreign sub-session fails with storage.ErrCommitConflict and
// nothing is written.
func (s *Store) Commit(ctx context.Context, message string, outcomes []*storage.Outcome) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root == nil {
		return storage.ErrNotInitialized
	}

	subs := make([]*session, 0, len(outcomes))
	for _, candidate := range storage.Sessions(outcomes) {
		sub, ok := candidate.(*session)
		if !ok {
			return fmt.Errorf("%w: outcome carries a session from another backend", storage.ErrCommitConflict)
		}
		subs = append(subs, sub)
	}

	if err := merge(root, subs); err != nil {
		return err
	}

	root.mu.Lock()
	if root.closed {
		root.mu.Unlock()
		return fmt.Errorf("%w: root session is closed", storage.ErrCommitConflict)
	}
	chunks := root.chunks
	meta := root.meta
	root.closed = true
	root.mu.Unlock()

	err := runInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		now := time.Now().UTC()

		for key, data := range chunks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO datacube_chunks (repo, branch, key, data, committed_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (repo, branch, key)
				DO UPDATE SET data = EXCLUDED.data, committed_at = EXCLUDED.committed_at
			`, s.repo, s.branch, key, data, now); err != nil {
				return fmt.Errorf("failed to write chunk %q: %w", key, err)
			}
		}

		for name, value := range meta {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO datacube_meta (repo, branch, name, value, committed_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (repo, branch, name)
				DO UPDATE SET value = EXCLUDED.value, committed_at = EXCLUDED.committed_at
			`, s.repo, s.branch, name, value, now); err != nil {
				return fmt.Errorf("failed to write metadata %q: %w", name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO datacube_commits (id, repo, branch, message, chunk_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), s.repo, s.branch, message, len(chunks), now); err != nil {
			return fmt.Errorf("failed to record commit: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Info("committed repository state",
		"repo", s.repo,
		"branch", s.branch,
		"message", message,
		"chunk_count", len(chunks),
		"merged_sessions", len(subs))
	return nil
}
