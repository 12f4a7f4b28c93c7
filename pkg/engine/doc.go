// Package engine executes ad-hoc SQL against snapshots of vector tables.
//
// The engine owns an in-memory SQLite database. Load registers a snapshot
// of a table (schema plus rows) under its table name; Query then runs any
// SQL statement against the registered snapshots and returns an ordered
// columns/rows result. Snapshots are copies: mutating SQL run through the
// engine never touches the backing table files, and callers refresh
// snapshots after mutating through the storage engine.
//
// Type mapping into SQLite: int -> INTEGER, float -> REAL, bool -> INTEGER
// (0/1), string -> TEXT, vector and json -> TEXT holding JSON.
package engine
