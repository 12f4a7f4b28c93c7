package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/lsql-dev/lsql/pkg/config"
)

// currentConfig is populated by the Before hook and read by subcommands.
// It always holds a usable configuration, falling back to defaults.
var currentConfig = config.Default()

// Run creates and executes the main lsql CLI application with the given
// version and command-line arguments.
//
// Global Flags:
//   - --config, -c: config file path (also via LSQL_CONFIG)
//
// When no explicit config file is given, ~/.lsql.yaml is loaded if it
// exists; otherwise defaults apply.
func Run(ctx context.Context, version string, args []string) error {
	app := &cli.Command{
		Name:  "lsql",
		Usage: "An embedded vector-table database shell",
		Description: `lsql opens a directory-backed table database and lets you query table
snapshots with SQL, either one-shot from the command line or in an
interactive shell with directives for schema inspection and row-level
updates.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the lsql config file",
				Sources: cli.EnvVars("LSQL_CONFIG"),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			path := cmd.String("config")
			if path != "" {
				cfg, err := config.LoadConfigFile(path)
				if err != nil {
					return ctx, err
				}
				currentConfig = cfg
				return ctx, nil
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return ctx, nil
			}

			path = filepath.Join(home, ".lsql.yaml")
			if _, err := os.Stat(path); err != nil {
				return ctx, nil
			}

			cfg, err := config.LoadConfigFile(path)
			if err != nil {
				return ctx, err
			}
			currentConfig = cfg
			return ctx, nil
		},
		Commands: []*cli.Command{
			tables(),
			query(),
			schemaCmd(),
			sqlCmd(),
			update(),
			deleteCmd(),
			empty(),
			drop(),
			importCmd(),
			exportCmd(),
			interactive(),
		},
	}

	return app.Run(ctx, args)
}
