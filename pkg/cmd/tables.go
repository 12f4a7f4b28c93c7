package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
)

// tables creates the tables command for listing the tables of a database.
//
// Example usage:
//
//	lsql tables ./vectors.db
func tables() *cli.Command {
	return &cli.Command{
		Name:      "tables",
		Usage:     "List tables in a database",
		ArgsUsage: "<db>",
		Flags:     []cli.Flag{outputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sess, err := openSession(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			return renderResult(cmd, sess.TablesResult())
		},
	}
}
