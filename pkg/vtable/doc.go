// Package vtable implements the embedded vector-table storage engine that
// lsql fronts.
//
// A database is a directory; each table is a single file inside it holding
// a JSON schema header followed by one JSON-encoded row per line. Tables
// carry typed columns (int, float, bool, string, vector, json) and rows are
// decoded back into native Go values on scan.
//
// The engine deliberately has no predicate language: callers evaluate
// where-expressions elsewhere (the SQL engine) and address rows by index
// through UpdateRows and DeleteRows. Scans return an in-memory snapshot;
// mutations rewrite the table file atomically via a temp file rename.
package vtable
