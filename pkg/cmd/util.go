package cmd

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/lsql-dev/lsql/pkg/engine"
	"github.com/lsql-dev/lsql/pkg/render"
	"github.com/lsql-dev/lsql/pkg/shell"
)

// outputFlag is shared by every subcommand that renders a result. An empty
// value defers to the configured default.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "output mode (table or json)",
		DefaultText: "table",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// argAt returns the positional argument at index i, or an error naming the
// missing argument.
func argAt(cmd *cli.Command, i int, name string) (string, error) {
	v := cmd.Args().Get(i)
	if v == "" {
		return "", errors.Errorf("missing %s argument", name)
	}
	return v, nil
}

// openSession connects to the database named by the first positional
// argument. The caller owns the returned session.
func openSession(ctx context.Context, cmd *cli.Command, createIfMissing bool) (*shell.Session, error) {
	path, err := argAt(cmd, 0, "database path")
	if err != nil {
		return nil, err
	}
	return shell.Connect(ctx, path, createIfMissing)
}

// renderResult writes a result to the command's writer in the requested
// mode, falling back to the configured default mode.
func renderResult(cmd *cli.Command, result *engine.Result) error {
	name := cmd.String("output")
	if name == "" {
		name = currentConfig.Output
	}

	mode, err := render.ParseMode(name)
	if err != nil {
		return err
	}
	return render.Render(cmd.Root().Writer, result, mode, render.Options{MaxWidth: currentConfig.MaxFieldWidth})
}

// quoteIdent wraps an identifier in double quotes for use in a generated
// SQL statement.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
