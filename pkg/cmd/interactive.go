package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/lsql-dev/lsql/pkg/render"
	"github.com/lsql-dev/lsql/pkg/shell"
)

// interactive creates the interactive command, the SQL shell over a
// database. On a terminal it reads through a line editor with history and
// completion; otherwise it consumes stdin as a script.
//
// Example usage:
//
//	lsql interactive ./vectors.db
//	lsql interactive ./new.db --create
//	lsql interactive ./vectors.db < queries.sql
func interactive() *cli.Command {
	return &cli.Command{
		Name:      "interactive",
		Aliases:   []string{"shell"},
		Usage:     "Open an interactive SQL shell",
		ArgsUsage: "<db>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "create",
				Usage: "create the database if missing",
				Value: false,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// A database that cannot be opened is the one fatal error;
			// everything after this point keeps the loop alive.
			sess, err := openSession(ctx, cmd, cmd.Bool("create"))
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			var src shell.LineSource
			if term.IsTerminal(int(os.Stdin.Fd())) {
				src, err = shell.NewReadlineSource(currentConfig.HistoryPath(), shell.NewCompleter(sess))
				if err != nil {
					return err
				}
			} else {
				src = shell.NewScriptSource(os.Stdin)
			}
			defer func() { _ = src.Close() }()

			mode, err := render.ParseMode(currentConfig.Output)
			if err != nil {
				return err
			}

			repl := shell.NewREPL(sess, src, cmd.Root().Writer, cmd.Root().ErrWriter, shell.Options{
				Prompt:         currentConfig.Shell.Prompt,
				ContinuePrompt: currentConfig.Shell.ContinuePrompt,
				MaxFieldWidth:  currentConfig.MaxFieldWidth,
				Mode:           mode,
			})
			return repl.Run(ctx)
		},
	}
}
