// Package postgres implements the transactional array store backend: a
// named repository inside Postgres with branch-scoped chunk state,
// in-memory write sessions merged order-independently at commit time, and
// a single SQL transaction per commit.
package postgres
