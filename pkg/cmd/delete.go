package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lsql-dev/lsql/pkg/render"
)

// deleteCmd creates the delete command for removing rows matching an
// expression.
//
// Example usage:
//
//	lsql delete ./vectors.db documents --where "score < 0.1"
func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete rows matching an expression",
		ArgsUsage: "<db> <table>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "where",
				Usage:    "filter expression selecting the rows to delete",
				Required: true,
			},
		},
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

			before, after, err := sess.Delete(ctx, table, cmd.String("where"))
			if err != nil {
				return err
			}

			render.Successf(cmd.Root().Writer, "Deleted %d row(s) from '%s' (%d remaining)",
				before-after, table, after)
			return nil
		},
	}
}
