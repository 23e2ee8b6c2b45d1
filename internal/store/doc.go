// Package store provides the SQLite-backed compilation journal.
//
// Every recorded compilation keeps the fingerprint of the mapping, the
// fingerprint of the generated SQL and the SQL itself, so a pipeline can
// answer "what SQL did this mapping produce, and has it changed?".
//
// # Guarantees
//
//   - Idempotent writes: a (spec_hash, sql_hash) pair is stored once.
//     Recording it again returns the existing record.
//   - Logical ordering: records carry a monotonically increasing seq and
//     every read orders by it, never by wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s on lock contention
//   - Single open connection: SQLite allows one writer
package store
