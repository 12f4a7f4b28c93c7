package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// query creates the query command, a convenience wrapper that builds a
// SELECT against a single table snapshot.
//
// Command flags:
//   - --limit, -n: maximum rows to return (default 10)
//   - --where, -w: filter expression
//   - --select, -s: projection column list (default *)
//   - --output, -o: table or json
//
// Example usage:
//
//	lsql query ./vectors.db documents --where "score > 0.5" --limit 20
func query() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Query a snapshot of one table",
		ArgsUsage: "<db> <table>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "maximum number of rows to return",
				Value:   10,
			},
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "filter expression",
			},
			&cli.StringFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "comma-separated column list to project",
				Value:   "*",
			},
			outputFlag(),
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

			if _, err := sess.SchemaOf(table); err != nil {
				return err
			}

			var stmt strings.Builder
			fmt.Fprintf(&stmt, "SELECT %s FROM %s", cmd.String("select"), quoteIdent(table))
			if where := cmd.String("where"); where != "" {
				fmt.Fprintf(&stmt, " WHERE %s", where)
			}
			fmt.Fprintf(&stmt, " LIMIT %d", cmd.Int("limit"))

			result, err := sess.Query(ctx, stmt.String())
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}
