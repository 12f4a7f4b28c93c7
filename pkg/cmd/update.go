package cmd

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lsql-dev/lsql/pkg/render"
)

// update creates the update command for typed row-level updates.
//
// Command flags:
//   - --set: comma-separated column=value assignments (required)
//   - --where: filter expression selecting the rows to change (required)
//
// Values in the set clause are coerced by trial: booleans, then integers,
// then floats, then bracketed JSON, then plain strings. Quote a value to
// force it to stay a string.
//
// Example usage:
//
//	lsql update ./vectors.db documents --set "score=0.9, label='reviewed'" --where "id = 7"
func update() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update rows matching an expression",
		ArgsUsage: "<db> <table>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "set",
				Usage:    "column=value assignments, comma separated",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "where",
				Usage:    "filter expression selecting the rows to change",
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

			updated, columns, err := sess.Update(ctx, table, cmd.String("set"), cmd.String("where"))
			if err != nil {
				return err
			}

			render.Successf(cmd.Root().Writer, "Updated %d row(s) in '%s' (columns: %s)",
				updated, table, strings.Join(columns, ", "))
			return nil
		},
	}
}
