// Package store provides SQLite-backed storage for compiled queries and
// endpoint results.
//
// The store holds two tables:
//   - queries: a catalog of compiled query text keyed by (name, fingerprint)
//   - results: raw endpoint responses keyed by (fingerprint, endpoint)
//
// # Critical Patterns
//
// Content-Addressed Identity
//   - fingerprint = querysparql.Fingerprint(text)
//   - Saving the same text under the same name twice is a no-op
//
// Logical Time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - seq is MAX(seq)+1 within the table, assigned inside the write tx
//
// Deterministic Query Results
//   - Listings use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: SQLite has a single writer
package store
