// Package sqlite provides a SQLite-backed store.Backend for preferences.
//
// # Critical Patterns
//
// Logical Time
//   - Every write takes the next value of a single-row clock table
//   - seq INTEGER orders writes, NEVER timestamps
//
// Deterministic Listing
//   - List uses ORDER BY key COLLATE BINARY
//
// Canonical Values
//   - value TEXT holds RFC 8785 canonical JSON; the backend never parses it
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package sqlite
