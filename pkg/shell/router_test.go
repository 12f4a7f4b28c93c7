package shell_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/lsql-dev/lsql/pkg/shell"
)

func TestRoute(t *testing.T) {
	t.Run("empty line", func(t *testing.T) {
		cmd, err := Route("")
		require.NoError(t, err)
		require.Equal(t, CmdEmpty, cmd.Kind)
	})

	t.Run("sql passes through verbatim", func(t *testing.T) {
		stmt := "SELECT *  FROM docs\nWHERE id = 1"
		cmd, err := Route(stmt)
		require.NoError(t, err)
		require.Equal(t, CmdQuery, cmd.Kind)
		require.Equal(t, stmt, cmd.SQL)
	})

	t.Run("bare directives", func(t *testing.T) {
		for _, name := range []string{"tables", "refresh", "exit", "help", "h"} {
			cmd, err := Route("." + name)
			require.NoError(t, err)
			require.Equal(t, CmdDirective, cmd.Kind)
			require.Equal(t, name, cmd.Name)
			require.Empty(t, cmd.Args)
		}
	})

	t.Run("bare directive rejects arguments", func(t *testing.T) {
		_, err := Route(".tables docs")
		require.Error(t, err)
		require.Contains(t, err.Error(), "usage: .tables")
	})

	t.Run("schema with and without table", func(t *testing.T) {
		cmd, err := Route(".schema")
		require.NoError(t, err)
		require.Empty(t, cmd.Args)

		cmd, err = Route(".schema docs")
		require.NoError(t, err)
		require.Equal(t, []string{"docs"}, cmd.Args)
	})

	t.Run("empty and drop require a table", func(t *testing.T) {
		for _, name := range []string{"empty", "drop"} {
			_, err := Route("." + name)
			require.Error(t, err)
			require.Contains(t, err.Error(), "missing table argument")

			cmd, err := Route("." + name + " docs")
			require.NoError(t, err)
			require.Equal(t, []string{"docs"}, cmd.Args)
		}
	})

	t.Run("delete argument splitting", func(t *testing.T) {
		_, err := Route(".delete")
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing table argument")

		_, err = Route(".delete docs")
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing where-clause argument")

		cmd, err := Route(".delete docs score < 0.5")
		require.NoError(t, err)
		require.Equal(t, []string{"docs", "score < 0.5"}, cmd.Args)
	})

	t.Run("update argument splitting", func(t *testing.T) {
		_, err := Route(".update")
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing table argument")

		_, err = Route(".update docs")
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing set-clause argument")

		_, err = Route(".update docs score=1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing where-clause argument")

		cmd, err := Route(".update docs score=1 id = 2 AND active = 1")
		require.NoError(t, err)
		require.Equal(t, []string{"docs", "score=1", "id = 2 AND active = 1"}, cmd.Args)
	})

	t.Run("missing argument is a validation error", func(t *testing.T) {
		_, err := Route(".update docs score=1")
		require.Equal(t, KindValidation, Classify(err))
	})

	t.Run("unknown directive", func(t *testing.T) {
		_, err := Route(".frobnicate")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown command: .frobnicate")
		require.Equal(t, KindValidation, Classify(err))
	})
}
