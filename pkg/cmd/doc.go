// Package cmd provides the lsql command line interface. Each subcommand is
// built by a constructor returning a *cli.Command; Run assembles them into
// the application and wires global configuration loading.
package cmd
