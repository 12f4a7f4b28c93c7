package shell

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lsql-dev/lsql/pkg/engine"
	"github.com/lsql-dev/lsql/pkg/setclause"
	"github.com/lsql-dev/lsql/pkg/vtable"
)

// Session owns the database handle and the query engine for one run, plus
// the cached table list feeding completion. It is single-threaded.
type Session struct {
	db     *vtable.Database
	engine *engine.Engine
	tables []string
	closed bool
}

// Connect opens the database at path (creating it when createIfMissing is
// set), starts the query engine, and loads a snapshot of every table. The
// returned session must be closed.
func Connect(ctx context.Context, path string, createIfMissing bool) (*Session, error) {
	db, err := vtable.OpenOrCreate(path, createIfMissing)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Session{db: db, engine: eng}
	if err := s.Refresh(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the engine and the database handle exactly once; further
// calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.engine.Close()
	if dbErr := s.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

// Database exposes the underlying storage handle for glue operations such
// as CSV import.
func (s *Session) Database() *vtable.Database { return s.db }

// Refresh re-enumerates tables from storage, reloads every snapshot into
// the query engine, and replaces the cached table list. This is the only
// way the completion vocabulary changes mid-session.
func (s *Session) Refresh(ctx context.Context) error {
	names, err := s.db.ListTables()
	if err != nil {
		return err
	}

	// Snapshots of dropped tables must not linger in the engine.
	current := make(map[string]struct{}, len(names))
	for _, name := range names {
		current[name] = struct{}{}
	}
	for _, old := range s.tables {
		if _, ok := current[old]; !ok {
			if err := s.engine.Drop(ctx, old); err != nil {
				return err
			}
		}
	}

	for _, name := range names {
		if err := s.reloadSnapshot(ctx, name); err != nil {
			return err
		}
	}

	s.tables = names
	return nil
}

// Tables returns a copy of the cached table names.
func (s *Session) Tables() []string {
	out := make([]string, len(s.tables))
	copy(out, s.tables)
	return out
}

// TableExists is a pure lookup against the cached table list; callers that
// need a guaranteed-fresh view call Refresh first. The staleness window is
// accepted for responsiveness.
func (s *Session) TableExists(name string) bool {
	for _, t := range s.tables {
		if t == name {
			return true
		}
	}
	return false
}

// Query runs one SQL statement against the registered snapshots.
func (s *Session) Query(ctx context.Context, stmt string) (*engine.Result, error) {
	return s.engine.Query(ctx, stmt)
}

// TablesResult renders the cached table list as a one-column result.
func (s *Session) TablesResult() *engine.Result {
	result := &engine.Result{Columns: []string{"table_name"}}
	for _, name := range s.tables {
		result.Rows = append(result.Rows, []any{name})
	}
	return result
}

// SchemaOf returns the schema of a table.
func (s *Session) SchemaOf(name string) (vtable.Schema, error) {
	if !s.TableExists(name) {
		return vtable.Schema{}, NotFoundf("table %q not found in database", name)
	}

	tbl, err := s.db.OpenTable(name)
	if err != nil {
		return vtable.Schema{}, err
	}
	return tbl.Schema(), nil
}

// Update applies a set clause to the rows matching the where-expression and
// returns the number of rows changed plus the assigned column names.
func (s *Session) Update(ctx context.Context, table, setText, whereText string) (int, []string, error) {
	if !s.TableExists(table) {
		return 0, nil, NotFoundf("table %q not found in database", table)
	}

	sc, err := setclause.Parse(setText)
	if err != nil {
		return 0, nil, WithKind(KindValidation, err)
	}

	tbl, err := s.db.OpenTable(table)
	if err != nil {
		return 0, nil, err
	}

	rows, err := tbl.Scan()
	if err != nil {
		return 0, nil, err
	}

	indexes, err := s.engine.MatchRows(ctx, table, tbl.Schema(), rows, whereText)
	if err != nil {
		return 0, nil, err
	}

	updated, err := tbl.UpdateRows(indexes, sc.Values())
	if err != nil {
		return 0, nil, err
	}

	if err := s.reloadSnapshot(ctx, table); err != nil {
		return 0, nil, err
	}
	return updated, sc.Columns(), nil
}

// Delete removes the rows matching the where-expression and returns the
// row counts before and after.
func (s *Session) Delete(ctx context.Context, table, whereText string) (before, after int, err error) {
	if !s.TableExists(table) {
		return 0, 0, NotFoundf("table %q not found in database", table)
	}

	tbl, err := s.db.OpenTable(table)
	if err != nil {
		return 0, 0, err
	}

	rows, err := tbl.Scan()
	if err != nil {
		return 0, 0, err
	}
	before = len(rows)

	indexes, err := s.engine.MatchRows(ctx, table, tbl.Schema(), rows, whereText)
	if err != nil {
		return 0, 0, err
	}

	deleted, err := tbl.DeleteRows(indexes)
	if err != nil {
		return 0, 0, err
	}

	if err := s.reloadSnapshot(ctx, table); err != nil {
		return 0, 0, err
	}
	return before, before - deleted, nil
}

// EmptyTable deletes all rows and returns how many were removed.
func (s *Session) EmptyTable(ctx context.Context, table string) (int, error) {
	if !s.TableExists(table) {
		return 0, NotFoundf("table %q not found in database", table)
	}

	tbl, err := s.db.OpenTable(table)
	if err != nil {
		return 0, err
	}

	deleted, err := tbl.Empty()
	if err != nil {
		return 0, err
	}

	if err := s.reloadSnapshot(ctx, table); err != nil {
		return 0, err
	}
	return deleted, nil
}

// DropTable removes a table from storage, drops its snapshot, and updates
// the cached table list.
func (s *Session) DropTable(ctx context.Context, table string) error {
	if !s.TableExists(table) {
		return NotFoundf("table %q not found in database", table)
	}

	if err := s.db.DropTable(table); err != nil {
		return err
	}
	if err := s.engine.Drop(ctx, table); err != nil {
		return err
	}

	kept := s.tables[:0]
	for _, name := range s.tables {
		if name != table {
			kept = append(kept, name)
		}
	}
	s.tables = kept
	return nil
}

// Vocabulary is the completion word list: directives, SQL keywords, and
// the cached table names.
func (s *Session) Vocabulary() []string {
	vocab := make([]string, 0, len(directiveWords)+len(sqlKeywords)+len(s.tables))
	vocab = append(vocab, directiveWords...)
	vocab = append(vocab, sqlKeywords...)
	vocab = append(vocab, s.tables...)
	return vocab
}

func (s *Session) reloadSnapshot(ctx context.Context, name string) error {
	tbl, err := s.db.OpenTable(name)
	if err != nil {
		return err
	}

	rows, err := tbl.Scan()
	if err != nil {
		return err
	}

	if err := s.engine.Load(ctx, name, tbl.Schema(), rows); err != nil {
		return errors.Wrapf(err, "failed to load snapshot of %q", name)
	}
	return nil
}
