package vtable_test

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	. "github.com/lsql-dev/lsql/pkg/vtable"
)

func testSchema() Schema {
	return Schema{Columns: []Column{
		{Name: "id", Type: TypeInt},
		{Name: "name", Type: TypeString},
		{Name: "score", Type: TypeFloat},
		{Name: "active", Type: TypeBool},
		{Name: "embedding", Type: TypeVector, Dim: 3},
	}}
}

func testRows() []Row {
	return []Row{
		{int64(1), "alpha", 0.9, true, []float64{1, 2, 3}},
		{int64(2), "beta", 0.1, false, []float64{4, 5, 6}},
		{int64(3), "gamma", 0.5, true, nil},
	}
}

func newTestTable(t *testing.T) (*Database, *Table) {
	t.Helper()

	db, err := Create(t.TempDir())
	require.NoError(t, err)

	tbl, err := db.CreateTable("docs", testSchema())
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(testRows()))

	return db, tbl
}

func TestOpen(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		db, err := Open(dir)
		require.NoError(t, err)
		require.Equal(t, dir, db.Path())
	})
}

func TestOpenOrCreate(t *testing.T) {
	t.Run("creates when asked", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "new.db")
		db, err := OpenOrCreate(path, true)
		require.NoError(t, err)

		names, err := db.ListTables()
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("missing without create flag", func(t *testing.T) {
		_, err := OpenOrCreate(filepath.Join(t.TempDir(), "new.db"), false)
		require.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestListTables(t *testing.T) {
	db, err := Create(t.TempDir())
	require.NoError(t, err)

	schema := Schema{Columns: []Column{{Name: "id", Type: TypeInt}}}
	for _, name := range []string{"zebra", "apple", "mango"} {
		_, err := db.CreateTable(name, schema)
		require.NoError(t, err)
	}

	names, err := db.ListTables()
	require.NoError(t, err)
	require.Equal(t, []string{"apple", "mango", "zebra"}, names)
}

func TestCreateTable(t *testing.T) {
	db, err := Create(t.TempDir())
	require.NoError(t, err)

	t.Run("duplicate name", func(t *testing.T) {
		schema := Schema{Columns: []Column{{Name: "id", Type: TypeInt}}}
		_, err := db.CreateTable("dup", schema)
		require.NoError(t, err)

		_, err = db.CreateTable("dup", schema)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := db.CreateTable("bad", Schema{})
		require.Error(t, err)
	})
}

func TestOpenTable(t *testing.T) {
	db, _ := newTestTable(t)

	t.Run("round trips schema and rows", func(t *testing.T) {
		tbl, err := db.OpenTable("docs")
		require.NoError(t, err)
		require.Equal(t, testSchema(), tbl.Schema())

		rows, err := tbl.Scan()
		require.NoError(t, err)
		require.Equal(t, testRows(), rows)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := db.OpenTable("missing")
		require.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestInsert(t *testing.T) {
	t.Run("arity mismatch", func(t *testing.T) {
		_, tbl := newTestTable(t)
		err := tbl.Insert([]Row{{int64(4), "delta"}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "columns")
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, tbl := newTestTable(t)
		err := tbl.Insert([]Row{{"oops", "delta", 0.2, true, nil}})
		require.Error(t, err)
	})

	t.Run("vector dimension mismatch", func(t *testing.T) {
		_, tbl := newTestTable(t)
		err := tbl.Insert([]Row{{int64(4), "delta", 0.2, true, []float64{1, 2}}})
		require.Error(t, err)
	})

	t.Run("appends", func(t *testing.T) {
		_, tbl := newTestTable(t)
		err := tbl.Insert([]Row{{int64(4), "delta", 0.2, true, []float64{7, 8, 9}}})
		require.NoError(t, err)

		n, err := tbl.Count()
		require.NoError(t, err)
		require.Equal(t, 4, n)
	})
}

func TestUpdateRows(t *testing.T) {
	t.Run("updates selected rows", func(t *testing.T) {
		_, tbl := newTestTable(t)
		n, err := tbl.UpdateRows([]int{0, 2}, map[string]any{"score": 0.7, "active": false})
		require.NoError(t, err)
		require.Equal(t, 2, n)

		rows, err := tbl.Scan()
		require.NoError(t, err)
		require.Equal(t, 0.7, rows[0][2])
		require.Equal(t, false, rows[0][3])
		require.Equal(t, 0.1, rows[1][2])
		require.Equal(t, 0.7, rows[2][2])
	})

	t.Run("unknown column leaves table untouched", func(t *testing.T) {
		_, tbl := newTestTable(t)
		_, err := tbl.UpdateRows([]int{0}, map[string]any{"nope": 1})
		require.Error(t, err)

		rows, err := tbl.Scan()
		require.NoError(t, err)
		require.Equal(t, testRows(), rows)
	})

	t.Run("int widens to float column", func(t *testing.T) {
		_, tbl := newTestTable(t)
		_, err := tbl.UpdateRows([]int{0}, map[string]any{"score": int64(1)})
		require.NoError(t, err)

		rows, err := tbl.Scan()
		require.NoError(t, err)
		require.Equal(t, float64(1), rows[0][2])
	})
}

func TestDeleteRows(t *testing.T) {
	_, tbl := newTestTable(t)

	n, err := tbl.DeleteRows([]int{0, 2})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	rows, err := tbl.Scan()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "beta", rows[0][1])
}

func TestEmpty(t *testing.T) {
	_, tbl := newTestTable(t)

	n, err := tbl.Empty()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	rows, err := tbl.Scan()
	require.NoError(t, err)
	require.Empty(t, rows)

	// Schema survives.
	require.Equal(t, testSchema(), tbl.Schema())
}

func TestDropTable(t *testing.T) {
	db, _ := newTestTable(t)

	require.NoError(t, db.DropTable("docs"))

	names, err := db.ListTables()
	require.NoError(t, err)
	require.Empty(t, names)

	err = db.DropTable("docs")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestClose(t *testing.T) {
	db, _ := newTestTable(t)

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err := db.ListTables()
	require.Error(t, err)
	require.Contains(t, err.Error(), "closed")
}

func TestSchemaString(t *testing.T) {
	require.Equal(t,
		"id: int\nname: string\nscore: float\nactive: bool\nembedding: vector(3)",
		testSchema().String())
}
