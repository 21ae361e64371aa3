package storage

import (
	"fmt"
	"strings"
)

// Kind selects a storage backend implementation.
type Kind string

// Supported backend kinds.
const (
	// KindLocal is the non-transactional chunk-per-file store rooted at a
	// local directory.
	KindLocal Kind = "local"
	// KindPostgres is the transactional named-repository store.
	KindPostgres Kind = "postgres"
)

// ParseConnString classifies a storage connection string: a plain path or
// file:// URL selects the local backend, a postgres:// (or postgresql://)
// URL, credentials included, selects the transactional backend. The
// returned target is the local root directory or the database URL.
func ParseConnString(uri string) (Kind, string, error) {
	s := strings.TrimSpace(uri)
	if s == "" {
		return "", "", fmt.Errorf("empty storage connection string")
	}

	switch {
	case strings.HasPrefix(s, "file://"):
		return KindLocal, strings.TrimPrefix(s, "file://"), nil
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"):
		return KindPostgres, s, nil
	case strings.Contains(s, "://"):
		return "", "", fmt.Errorf("unsupported storage scheme in %q", uri)
	default:
		// Bare paths are local directories.
		return KindLocal, s, nil
	}
}
