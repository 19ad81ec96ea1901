// Package store provides the persistence backends: a SQLite primary, a
// best-effort remote document mirror, and an in-memory TTL cache.
//
// # SQLite
//
// SQLiteStore implements the Store interface over a WAL-mode database:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is self-migrating: on startup each expected table is created if
// absent, and a table whose columns drifted from the expected shape is
// rebuilt in place, copying the data in the columns both shapes share.
//
// # Mirror
//
// MirrorStore wraps a SurrealDB connection. It never returns errors from
// writes; failures are logged and the store degrades to unavailable. Use
// NewSQLiteStore(":memory:") plus a disabled mirror for tests.
//
// # Errors
//
//   - ErrNotFound: the requested row does not exist
package store
