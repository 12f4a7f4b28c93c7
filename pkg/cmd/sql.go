package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
)

// sqlCmd creates the sql command for running one statement against
// snapshots of all tables in the database.
//
// Example usage:
//
//	lsql sql ./vectors.db "SELECT name, score FROM documents ORDER BY score DESC"
func sqlCmd() *cli.Command {
	return &cli.Command{
		Name:      "sql",
		Usage:     "Run a SQL statement against table snapshots",
		ArgsUsage: "<db> <statement>",
		Flags:     []cli.Flag{outputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stmt, err := argAt(cmd, 1, "statement")
			if err != nil {
				return err
			}

			sess, err := openSession(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			result, err := sess.Query(ctx, stmt)
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}
