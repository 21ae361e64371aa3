package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// array implements storage.Array against one session. Writes stage into the
// session; reads consult the session's staging first, then fall back to the
// committed state of the branch.
type array struct {
	sess *session
}

var _ storage.Array = (*array)(nil)
var _ storage.Forkable = (*array)(nil)

func (a *array) WriteChunk(ctx context.Context, key string, data []byte) error {
	return a.sess.stageChunk(key, data)
}

func (a *array) ReadChunk(ctx context.Context, key string) ([]byte, error) {
	if data, ok := a.sess.stagedChunk(key); ok {
		return append([]byte(nil), data...), nil
	}

	st := a.sess.store
	var data []byte
	err := st.db.QueryRowContext(ctx,
		`SELECT data FROM datacube_chunks WHERE repo = $1 AND branch = $2 AND key = $3`,
		st.repo, st.branch, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk %q: %w", key, err)
	}
	return data, nil
}

func (a *array) PutMeta(ctx context.Context, name string, value []byte) error {
	return a.sess.stageMeta(name, value)
}

func (a *array) GetMeta(ctx context.Context, name string) ([]byte, error) {
	if value, ok := a.sess.stagedMeta(name); ok {
		return append([]byte(nil), value...), nil
	}

	st := a.sess.store
	var value []byte
	err := st.db.QueryRowContext(ctx,
		`SELECT value FROM datacube_meta WHERE repo = $1 AND branch = $2 AND name = $3`,
		st.repo, st.branch, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %q: %w", name, err)
	}
	return value, nil
}

// Fork opens an independent sub-session against the same repository branch.
// The sub-session's writes stay staged until it is merged into the root at
// commit time.
func (a *array) Fork(ctx context.Context) (storage.Session, storage.Array, error) {
	if a.sess.Closed() {
		return nil, nil, storage.ErrSessionClosed
	}
	sub := newSession(a.sess.store)
	return sub, &array{sess: sub}, nil
}
