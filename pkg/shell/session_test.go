package shell_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/lsql-dev/lsql/pkg/shell"
	"github.com/lsql-dev/lsql/pkg/vtable"
)

// newTestDB builds a database with a populated docs table and an empty tags
// table, returning its path.
func newTestDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := vtable.Create(dir)
	require.NoError(t, err)

	docs, err := db.CreateTable("docs", vtable.Schema{Columns: []vtable.Column{
		{Name: "id", Type: vtable.TypeInt},
		{Name: "name", Type: vtable.TypeString},
		{Name: "score", Type: vtable.TypeFloat},
		{Name: "active", Type: vtable.TypeBool},
	}})
	require.NoError(t, err)
	require.NoError(t, docs.Insert([]vtable.Row{
		{int64(1), "alpha", 0.9, true},
		{int64(2), "beta", 0.1, false},
		{int64(3), "gamma", 0.5, true},
	}))

	_, err = db.CreateTable("tags", vtable.Schema{Columns: []vtable.Column{
		{Name: "id", Type: vtable.TypeInt},
		{Name: "label", Type: vtable.TypeString},
	}})
	require.NoError(t, err)

	require.NoError(t, db.Close())
	return dir
}

func newTestSession(t *testing.T) *Session {
	t.Helper()

	sess, err := Connect(context.Background(), newTestDB(t), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func TestConnect(t *testing.T) {
	t.Run("missing database", func(t *testing.T) {
		_, err := Connect(context.Background(), filepath.Join(t.TempDir(), "nope"), false)
		require.Error(t, err)
		require.Equal(t, KindNotFound, Classify(err))
	})

	t.Run("create if missing", func(t *testing.T) {
		sess, err := Connect(context.Background(), filepath.Join(t.TempDir(), "new.db"), true)
		require.NoError(t, err)
		defer func() { _ = sess.Close() }()
		require.Empty(t, sess.Tables())
	})
}

func TestSessionTables(t *testing.T) {
	sess := newTestSession(t)

	require.Equal(t, []string{"docs", "tags"}, sess.Tables())
	require.True(t, sess.TableExists("docs"))
	require.False(t, sess.TableExists("nope"))

	result := sess.TablesResult()
	require.Equal(t, []string{"table_name"}, result.Columns)
	require.Equal(t, [][]any{{"docs"}, {"tags"}}, result.Rows)
}

func TestSessionQuery(t *testing.T) {
	sess := newTestSession(t)

	result, err := sess.Query(context.Background(), "SELECT name FROM docs WHERE active = 1 ORDER BY id")
	require.NoError(t, err)
	require.Equal(t, [][]any{{"alpha"}, {"gamma"}}, result.Rows)
}

func TestSessionUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates and refreshes the snapshot", func(t *testing.T) {
		sess := newTestSession(t)

		n, columns, err := sess.Update(ctx, "docs", "score=0.8, active=false", "id <= 2")
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, []string{"score", "active"}, columns)

		result, err := sess.Query(ctx, "SELECT COUNT(*) FROM docs WHERE score = 0.8 AND active = 0")
		require.NoError(t, err)
		require.Equal(t, int64(2), result.Rows[0][0])
	})

	t.Run("unknown table", func(t *testing.T) {
		sess := newTestSession(t)
		_, _, err := sess.Update(ctx, "nope", "a=1", "id = 1")
		require.Equal(t, KindNotFound, Classify(err))
	})

	t.Run("bad set clause", func(t *testing.T) {
		sess := newTestSession(t)
		_, _, err := sess.Update(ctx, "docs", "not a set clause,,", "id = 1")
		require.Equal(t, KindValidation, Classify(err))
	})
}

func TestSessionDelete(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	before, after, err := sess.Delete(ctx, "docs", "score < 0.6")
	require.NoError(t, err)
	require.Equal(t, 3, before)
	require.Equal(t, 1, after)

	result, err := sess.Query(ctx, "SELECT name FROM docs")
	require.NoError(t, err)
	require.Equal(t, [][]any{{"alpha"}}, result.Rows)
}

func TestSessionEmpty(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	n, err := sess.EmptyTable(ctx, "docs")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	result, err := sess.Query(ctx, "SELECT COUNT(*) FROM docs")
	require.NoError(t, err)
	require.Equal(t, int64(0), result.Rows[0][0])
}

func TestSessionDrop(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	require.NoError(t, sess.DropTable(ctx, "docs"))
	require.Equal(t, []string{"tags"}, sess.Tables())

	_, err := sess.Query(ctx, "SELECT * FROM docs")
	require.Error(t, err)

	err = sess.DropTable(ctx, "docs")
	require.Equal(t, KindNotFound, Classify(err))
}

func TestSessionRefresh(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	// Refreshing twice with no changes is a no-op.
	require.NoError(t, sess.Refresh(ctx))
	require.NoError(t, sess.Refresh(ctx))
	require.Equal(t, []string{"docs", "tags"}, sess.Tables())

	// A table created behind the session's back appears after a refresh.
	db := sess.Database()
	_, err := db.CreateTable("extra", vtable.Schema{Columns: []vtable.Column{{Name: "id", Type: vtable.TypeInt}}})
	require.NoError(t, err)
	require.False(t, sess.TableExists("extra"))

	require.NoError(t, sess.Refresh(ctx))
	require.True(t, sess.TableExists("extra"))

	_, err = sess.Query(ctx, "SELECT COUNT(*) FROM extra")
	require.NoError(t, err)
}

func TestSessionSchemaOf(t *testing.T) {
	sess := newTestSession(t)

	schema, err := sess.SchemaOf("tags")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "label"}, schema.Names())

	_, err = sess.SchemaOf("nope")
	require.Equal(t, KindNotFound, Classify(err))
}

func TestSessionClose(t *testing.T) {
	sess, err := Connect(context.Background(), newTestDB(t), false)
	require.NoError(t, err)

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
}

func TestSessionVocabulary(t *testing.T) {
	sess := newTestSession(t)

	vocab := sess.Vocabulary()
	require.Contains(t, vocab, ".tables")
	require.Contains(t, vocab, "SELECT")
	require.Contains(t, vocab, "docs")
	require.Contains(t, vocab, "tags")
}
