package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // register driver

	"github.com/lsql-dev/lsql/pkg/vtable"
)

type (
	// Result is a tabular query result: ordered unique column names and
	// rows whose length always equals the column count.
	Result struct {
		Columns []string
		Rows    [][]any
	}

	// Engine wraps the in-memory SQLite database holding table snapshots.
	Engine struct {
		db *sql.DB
	}
)

// New opens a fresh in-memory engine with no snapshots registered.
func New() (*Engine, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open query engine")
	}

	// A single connection keeps every snapshot visible; in-memory SQLite
	// databases are per-connection.
	db.SetMaxOpenConns(1)

	return &Engine{db: db}, nil
}

// Close releases the engine and all registered snapshots.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Load (re)registers a snapshot of the named table. Any previous snapshot
// under the same name is replaced.
func (e *Engine) Load(ctx context.Context, name string, schema vtable.Schema, rows []vtable.Row) error {
	if err := e.Drop(ctx, name); err != nil {
		return err
	}

	ddl, err := createStatement(name, schema)
	if err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrapf(err, "failed to register snapshot %q", name)
	}

	if len(rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(schema.Columns)), ",")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s);", quoteIdent(name), placeholders)

	stmt, err := e.db.PrepareContext(ctx, insert)
	if err != nil {
		return errors.Wrapf(err, "failed to register snapshot %q", name)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		args, err := bindRow(row, schema)
		if err != nil {
			return errors.Wrapf(err, "failed to register snapshot %q", name)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrapf(err, "failed to register snapshot %q", name)
		}
	}

	return nil
}

// Drop removes a registered snapshot. Unknown names are ignored.
func (e *Engine) Drop(ctx context.Context, name string) error {
	q := fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(name))
	if _, err := e.db.ExecContext(ctx, q); err != nil {
		return errors.Wrapf(err, "failed to drop snapshot %q", name)
	}
	return nil
}

// Query executes one SQL statement against the registered snapshots.
func (e *Engine) Query(ctx context.Context, stmt string) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "query failed")
		}
		for i, v := range raw {
			if b, ok := v.([]byte); ok {
				raw[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query failed")
	}

	return result, nil
}

// MatchRows evaluates a where-expression against a snapshot of the given
// rows and returns the indexes (in input order) of the rows that satisfy
// it. The snapshot is registered under a scratch name and removed again, so
// it never collides with the table's regular snapshot.
func (e *Engine) MatchRows(ctx context.Context, name string, schema vtable.Schema, rows []vtable.Row, where string) ([]int, error) {
	scratch := name + "__match"

	withID := vtable.Schema{Columns: append([]vtable.Column{{Name: matchIDColumn, Type: vtable.TypeInt}}, schema.Columns...)}
	idRows := make([]vtable.Row, len(rows))
	for i, row := range rows {
		idRows[i] = append(vtable.Row{int64(i)}, row...)
	}

	if err := e.Load(ctx, scratch, withID, idRows); err != nil {
		return nil, err
	}
	defer func() { _ = e.Drop(ctx, scratch) }()

	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s;", matchIDColumn, quoteIdent(scratch), where, matchIDColumn)
	result, err := e.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(result.Rows))
	for _, row := range result.Rows {
		id, ok := row[0].(int64)
		if !ok {
			return nil, errors.Errorf("unexpected row id %v (%T)", row[0], row[0])
		}
		indexes = append(indexes, int(id))
	}
	return indexes, nil
}

const matchIDColumn = "__lsql_rowid"

func createStatement(name string, schema vtable.Schema) (string, error) {
	if len(schema.Columns) == 0 {
		return "", errors.Errorf("snapshot %q has no columns", name)
	}

	defs := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), sqlType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", quoteIdent(name), strings.Join(defs, ", ")), nil
}

func sqlType(t vtable.ColumnType) string {
	switch t {
	case vtable.TypeInt, vtable.TypeBool:
		return "INTEGER"
	case vtable.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// bindRow converts native cell values into driver arguments.
func bindRow(row vtable.Row, schema vtable.Schema) ([]any, error) {
	if len(row) != len(schema.Columns) {
		return nil, errors.Errorf("row has %d values, expected %d", len(row), len(schema.Columns))
	}

	args := make([]any, len(row))
	for i, cell := range row {
		if cell == nil {
			args[i] = nil
			continue
		}
		switch v := cell.(type) {
		case bool:
			if v {
				args[i] = int64(1)
			} else {
				args[i] = int64(0)
			}
		case int64, float64, string:
			args[i] = v
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, errors.Wrapf(err, "column %q", schema.Columns[i].Name)
			}
			args[i] = string(encoded)
		}
	}
	return args, nil
}

// quoteIdent quotes an identifier for SQLite.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
