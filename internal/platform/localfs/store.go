package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/logger"
	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// Store is the non-transactional backend: a chunk-per-file array store
// rooted at a local directory. Writes are durable immediately upon
// execution; the backend has no atomicity concept, so Commit is a no-op.
type Store struct {
	root string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Initialize clears existing content at the target location. A target that
// does not exist yet is success.
func (s *Store) Initialize(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := os.RemoveAll(s.root); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear store at %q: %w", s.root, err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create store at %q: %w", s.root, err)
	}

	log.Info("initialized local store", "root", s.root)
	return nil
}

// Acquire returns a long-lived handle valid for the whole batch. The
// release function is a no-op close.
func (s *Store) Acquire(ctx context.Context) (storage.Array, func() error, error) {
	if _, err := os.Stat(s.root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(s.root, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create store at %q: %w", s.root, err)
			}
		} else {
			return nil, nil, fmt.Errorf("failed to open store at %q: %w", s.root, err)
		}
	}
	return &array{root: s.root}, func() error { return nil }, nil
}

// Commit is a no-op: job writes against this backend are already durable.
// Outcomes are accepted for interface symmetry and ignored.
func (s *Store) Commit(ctx context.Context, message string, outcomes []*storage.Outcome) error {
	logger.FromContext(ctx).Debug("commit is a no-op for the local store",
		"message", message,
		"outcome_count", len(outcomes))
	return nil
}

// array implements storage.Array over chunk files. Concurrent writers are
// safe as long as they touch disjoint chunk keys; each write lands in its
// own file via an atomic rename.
type array struct {
	root string
}

func (a *array) WriteChunk(ctx context.Context, key string, data []byte) error {
	return a.write(chunkPath(a.root, key), data)
}

func (a *array) ReadChunk(ctx context.Context, key string) ([]byte, error) {
	return a.read(chunkPath(a.root, key))
}

func (a *array) PutMeta(ctx context.Context, name string, value []byte) error {
	return a.write(metaPath(a.root, name), value)
}

func (a *array) GetMeta(ctx context.Context, name string) ([]byte, error) {
	return a.read(metaPath(a.root, name))
}

// write stores data under path via a temp file and rename so a concurrent
// reader never observes a half-written chunk.
func (a *array) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chunk directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".chunk-*")
	if err != nil {
		return fmt.Errorf("failed to create temp chunk file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write chunk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close chunk file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to place chunk file: %w", err)
	}
	return nil
}

// read memory-maps the chunk file and returns a copy of its contents.
// Mapping avoids double-buffering large chunks through the page cache and
// the Go heap at once.
func (a *array) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrChunkNotFound
		}
		return nil, fmt.Errorf("failed to open chunk file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat chunk file: %w", err)
	}
	if info.Size() == 0 {
		return []byte{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to map chunk file: %w", err)
	}
	defer func() { _ = m.Unmap() }()

	data := make([]byte, len(m))
	copy(data, m)
	return data, nil
}

// chunkPath flattens a chunk key into a file path under root. Key segments
// separated by '/' become directories.
func chunkPath(root, key string) string {
	return filepath.Join(root, "chunks", filepath.FromSlash(strings.TrimPrefix(key, "/")))
}

func metaPath(root, name string) string {
	return filepath.Join(root, "meta", filepath.FromSlash(strings.TrimPrefix(name, "/")))
}
