package cmd

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/lsql-dev/lsql/pkg/render"
)

// drop creates the drop command for removing a table and all of its rows.
// Without --confirm it prompts on a terminal and is refused outright when
// stdin is not a terminal, so scripts must be explicit about destruction.
//
// Example usage:
//
//	lsql drop ./vectors.db documents --confirm
func drop() *cli.Command {
	return &cli.Command{
		Name:      "drop",
		Usage:     "Drop a table",
		ArgsUsage: "<db> <table>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "confirm",
				Usage: "skip the interactive confirmation prompt",
				Value: false,
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

			if !cmd.Bool("confirm") {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.Errorf("refusing to drop %q without --confirm", table)
				}

				render.Warnf(cmd.Root().Writer, "This will permanently delete table '%s' and all of its rows.", table)
				render.Infof(cmd.Root().Writer, "Are you sure? (yes/no): ")
				answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				if strings.TrimSpace(answer) != "yes" {
					render.Infof(cmd.Root().Writer, "Drop cancelled")
					return nil
				}
			}

			if err := sess.DropTable(ctx, table); err != nil {
				return err
			}

			render.Successf(cmd.Root().Writer, "Dropped table '%s'", table)
			return nil
		},
	}
}
