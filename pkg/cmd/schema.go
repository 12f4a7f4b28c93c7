package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// schemaCmd creates the schema command for printing a table's schema.
func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "Show the schema of a table",
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

			schema, err := sess.SchemaOf(table)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.Root().Writer, schema.String())
			return nil
		},
	}
}
