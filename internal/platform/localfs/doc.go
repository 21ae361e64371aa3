// Package localfs implements the non-transactional array store backend:
// one file per chunk under a local root directory, durable on write, with
// memory-mapped reads.
package localfs
