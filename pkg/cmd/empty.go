package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lsql-dev/lsql/pkg/render"
)

// empty creates the empty command for deleting all rows of a table while
// keeping its schema.
func empty() *cli.Command {
	return &cli.Command{
		Name:      "empty",
		Usage:     "Delete all rows from a table",
		ArgsUsage: "<db> <table>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, err := argAt(cmd, 1, "table")
			if err != nil {
				return err
			}

			sess, err := openSession(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			deleted, err := sess.EmptyTable(ctx, table)
			if err != nil {
				return err
			}

			render.Successf(cmd.Root().Writer, "Emptied '%s', %d row(s) removed", table, deleted)
			return nil
		},
	}
}
