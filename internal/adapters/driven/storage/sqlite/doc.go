// Package sqlite provides a SQLite-backed key-value EntityStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each entity collection is one row of
// the collections table, holding the whole ordered collection as a JSON array:
//
//   - projects: []domain.Project
//   - experiences: []domain.Experience
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.folio/data/portfolio.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite locking in WAL mode.
package sqlite
