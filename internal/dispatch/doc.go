// Package dispatch executes per-tile processing jobs concurrently against a
// shared array handle, with bounded immediate retry on transient faults and
// skip-not-fail semantics on exhaustion.
package dispatch
