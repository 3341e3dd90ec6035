// Package store provides SQLite-backed scan history for vscan.
//
// Every detection the engine processes is appended as one row in the scans
// table, whatever its outcome. The log is append-only: rows are never
// updated, and writing a record whose ID already exists is a no-op.
//
// # Ordering
//
// All ordering uses seq, the engine's logical clock, never recorded_at.
// Queries order by seq ASC, id ASC COLLATE BINARY so identical logs give
// identical results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Content hashes are computed by ir.ContentHash before the record reaches
// the store.
package store
