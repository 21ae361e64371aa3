// Package storage defines the array-store coordination contract: the shared
// chunked-array handle, scoped write sessions, and the
// initialize/acquire/commit store interface implemented by the backends
// under internal/platform.
package storage
