package shell_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lsql-dev/lsql/pkg/render"
	. "github.com/lsql-dev/lsql/pkg/shell"
)

// runScript feeds a script through the REPL against a fresh test database
// and returns stdout and stderr.
func runScript(t *testing.T, script string) (string, string) {
	t.Helper()

	sess := newTestSession(t)
	src := NewScriptSource(strings.NewReader(script))

	var out, errOut strings.Builder
	repl := NewREPL(sess, src, &out, &errOut, Options{
		Prompt:         "lsql> ",
		ContinuePrompt: "  ...> ",
		Mode:           render.ModeTable,
	})

	require.NoError(t, repl.Run(context.Background()))
	return out.String(), errOut.String()
}

func TestREPLTables(t *testing.T) {
	out, errOut := runScript(t, ".tables\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "table_name")
	require.Contains(t, out, "docs")
	require.Contains(t, out, "tags")
	require.Contains(t, out, "2 row(s)")
}

func TestREPLQuery(t *testing.T) {
	out, errOut := runScript(t, "SELECT name FROM docs WHERE id = 1\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "alpha")
	require.Contains(t, out, "1 row(s)")
}

func TestREPLMultilineStatement(t *testing.T) {
	out, errOut := runScript(t, "SELECT COUNT(*) AS n FROM docs WHERE name != 'no\nbody'\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "| 3 |")
}

func TestREPLSchema(t *testing.T) {
	t.Run("one table", func(t *testing.T) {
		out, _ := runScript(t, ".schema tags\n.exit\n")
		require.Contains(t, out, "tags:")
		require.Contains(t, out, "label: string")
	})

	t.Run("all tables", func(t *testing.T) {
		out, _ := runScript(t, ".schema\n.exit\n")
		require.Contains(t, out, "docs:")
		require.Contains(t, out, "tags:")
	})
}

func TestREPLUpdate(t *testing.T) {
	out, errOut := runScript(t, ".update docs score=0.7 id = 2\nSELECT score FROM docs WHERE id = 2\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "Updated 1 row(s) in 'docs'")
	require.Contains(t, out, "0.7")
}

func TestREPLDelete(t *testing.T) {
	out, errOut := runScript(t, ".delete docs active = 0\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "Deleted 1 row(s) from 'docs' (2 remaining)")
}

func TestREPLEmpty(t *testing.T) {
	out, errOut := runScript(t, ".empty docs\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "Emptied 'docs', 3 row(s) removed")
}

func TestREPLRefresh(t *testing.T) {
	out, errOut := runScript(t, ".refresh\n.exit\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "Refreshed 2 table(s)")
}

func TestREPLDrop(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		out, errOut := runScript(t, ".drop docs\nyes\n.tables\n.exit\n")
		require.Empty(t, errOut)
		require.Contains(t, out, "Dropped table 'docs'")
		require.Contains(t, out, "1 row(s)")
	})

	t.Run("anything but yes cancels", func(t *testing.T) {
		out, errOut := runScript(t, ".drop docs\nno\n.tables\n.exit\n")
		require.Empty(t, errOut)
		require.Contains(t, out, "Drop cancelled")
		require.Contains(t, out, "2 row(s)")
	})
}

// A failing command prints one line and the loop keeps running.
func TestREPLSurvivesErrors(t *testing.T) {
	t.Run("bad sql", func(t *testing.T) {
		out, errOut := runScript(t, "SELEKT nope\n.tables\n.exit\n")
		require.Contains(t, errOut, "Error:")
		require.Contains(t, out, "2 row(s)")
	})

	t.Run("missing directive argument", func(t *testing.T) {
		out, errOut := runScript(t, ".update docs\n.tables\n.exit\n")
		require.Contains(t, errOut, "missing set-clause argument")
		require.Contains(t, out, "2 row(s)")
	})

	t.Run("unknown directive", func(t *testing.T) {
		_, errOut := runScript(t, ".bogus\n.exit\n")
		require.Contains(t, errOut, "unknown command: .bogus")
	})

	t.Run("unknown table", func(t *testing.T) {
		_, errOut := runScript(t, ".empty nope\n.exit\n")
		require.Contains(t, errOut, `table "nope" not found`)
	})
}

// End of input terminates the loop like .exit does.
func TestREPLEOF(t *testing.T) {
	out, errOut := runScript(t, ".tables\n")
	require.Empty(t, errOut)
	require.Contains(t, out, "2 row(s)")
}

func TestREPLHelp(t *testing.T) {
	out, _ := runScript(t, ".help\n.exit\n")
	require.Contains(t, out, ".tables")
	require.Contains(t, out, ".drop <table>")
}

func TestCompleter(t *testing.T) {
	sess := newTestSession(t)
	completer := NewCompleter(sess)

	line := []rune("SELECT * FROM do")
	candidates, length := completer.Do(line, len(line))
	require.Equal(t, len("do"), length)
	require.Equal(t, [][]rune{[]rune("cs")}, candidates)

	// Keyword completion is case-insensitive.
	line = []rune("sel")
	candidates, _ = completer.Do(line, len(line))
	require.Equal(t, [][]rune{[]rune("ECT")}, candidates)
}
