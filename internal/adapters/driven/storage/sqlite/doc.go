// Package sqlite provides a SQLite-based implementation of the
// HistoryStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It persists the
// recent-files list only; no tree state survives a session.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory as .up.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.skim/data/history.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
