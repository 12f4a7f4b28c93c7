package vtable

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lsql-dev/lsql/pkg/consts"
	"github.com/pkg/errors"
)

// ErrNotFound reports a missing database or table that was required to
// exist. Test with errors.Is.
var ErrNotFound = errors.New("not found")

// Database is an open handle on a database directory. It is not safe for
// concurrent use; lsql holds exactly one per process.
type Database struct {
	dir    string
	closed bool
}

// Open opens an existing database directory. It returns ErrNotFound if the
// path does not exist or is not a directory.
func Open(path string) (*Database, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "database %q", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat database %q", path)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%q is not a database directory", path)
	}

	return &Database{dir: path}, nil
}

// Create creates the database directory (and parents) if needed and opens
// it. Creating an already existing database is not an error.
func Create(path string) (*Database, error) {
	if err := os.MkdirAll(path, consts.ModeDir); err != nil {
		return nil, errors.Wrapf(err, "failed to create database %q", path)
	}
	return &Database{dir: path}, nil
}

// OpenOrCreate opens the database at path, creating it first when
// createIfMissing is set. Without the flag a missing path yields
// ErrNotFound.
func OpenOrCreate(path string, createIfMissing bool) (*Database, error) {
	if createIfMissing {
		return Create(path)
	}
	return Open(path)
}

// Path returns the database directory path.
func (db *Database) Path() string {
	return db.dir
}

// ListTables enumerates table names in the database, sorted.
func (db *Database) ListTables() ([]string, error) {
	if db.closed {
		return nil, errors.New("database is closed")
	}

	entries, err := os.ReadDir(db.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read database %q", db.dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), consts.TableFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), consts.TableFileExt))
	}

	sort.Strings(names)
	return names, nil
}

// OpenTable opens an existing table. Returns ErrNotFound if it does not
// exist.
func (db *Database) OpenTable(name string) (*Table, error) {
	if db.closed {
		return nil, errors.New("database is closed")
	}

	path := db.tablePath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "table %q", name)
	}

	t := &Table{name: name, path: path}
	if err := t.loadSchema(); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTable creates a new, empty table with the given schema. An existing
// table with the same name is an error.
func (db *Database) CreateTable(name string, schema Schema) (*Table, error) {
	if db.closed {
		return nil, errors.New("database is closed")
	}
	if name == "" {
		return nil, errors.New("table name must not be empty")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	path := db.tablePath(name)
	if _, err := os.Stat(path); err == nil {
		return nil, errors.Errorf("table %q already exists", name)
	}

	t := &Table{name: name, path: path, schema: schema}
	if err := t.rewrite(nil); err != nil {
		return nil, err
	}
	return t, nil
}

// DropTable removes the table file. Returns ErrNotFound for an unknown
// table.
func (db *Database) DropTable(name string) error {
	if db.closed {
		return errors.New("database is closed")
	}

	path := db.tablePath(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotFound, "table %q", name)
		}
		return errors.Wrapf(err, "failed to drop table %q", name)
	}
	return nil
}

// Close releases the handle. Closing twice is a no-op.
func (db *Database) Close() error {
	db.closed = true
	return nil
}

func (db *Database) tablePath(name string) string {
	return filepath.Join(db.dir, name+consts.TableFileExt)
}
