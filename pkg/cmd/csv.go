package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/lsql-dev/lsql/pkg/render"
	"github.com/lsql-dev/lsql/pkg/setclause"
	"github.com/lsql-dev/lsql/pkg/shell"
	"github.com/lsql-dev/lsql/pkg/vtable"
)

// importCmd creates the import command for loading rows from a CSV file.
// The first CSV record is the header. With --create a missing table (or
// database) is created, inferring column types from the first data row.
//
// Example usage:
//
//	lsql import ./vectors.db documents ./documents.csv --create
func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import rows from a CSV file",
		ArgsUsage: "<db> <table> <file.csv>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "create",
				Usage: "create the database and table if missing",
				Value: false,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, err := argAt(cmd, 1, "table")
			if err != nil {
				return err
			}
			file, err := argAt(cmd, 2, "csv file")
			if err != nil {
				return err
			}

			sess, err := openSession(ctx, cmd, cmd.Bool("create"))
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			f, err := os.Open(file)
			if err != nil {
				return errors.Wrapf(err, "failed to open file: %s", file)
			}
			defer func() { _ = f.Close() }()

			records, err := csv.NewReader(f).ReadAll()
			if err != nil {
				return errors.Wrap(err, "failed to read CSV")
			}
			if len(records) == 0 {
				return errors.New("CSV file has no header record")
			}

			tbl, err := importTarget(sess, table, records, cmd.Bool("create"))
			if err != nil {
				return err
			}

			rows := make([]vtable.Row, 0, len(records)-1)
			for i, record := range records[1:] {
				row, err := parseCSVRecord(tbl.Schema(), record)
				if err != nil {
					return errors.Wrapf(err, "record %d", i+2)
				}
				rows = append(rows, row)
			}

			if err := tbl.Insert(rows); err != nil {
				return err
			}
			if err := sess.Refresh(ctx); err != nil {
				return err
			}

			render.Successf(cmd.Root().Writer, "Imported %d row(s) into '%s'", len(rows), table)
			return nil
		},
	}
}

// exportCmd creates the export command for writing a table to a CSV file.
// Null cells become empty fields.
func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a table to a CSV file",
		ArgsUsage: "<db> <table> <file.csv>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, err := argAt(cmd, 1, "table")
			if err != nil {
				return err
			}
			file, err := argAt(cmd, 2, "csv file")
			if err != nil {
				return err
			}

			sess, err := openSession(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if !sess.TableExists(table) {
				return errors.Errorf("table %q not found in database", table)
			}

			tbl, err := sess.Database().OpenTable(table)
			if err != nil {
				return err
			}
			rows, err := tbl.Scan()
			if err != nil {
				return err
			}

			f, err := os.Create(file)
			if err != nil {
				return errors.Wrapf(err, "failed to create file: %s", file)
			}
			defer func() { _ = f.Close() }()

			w := csv.NewWriter(f)
			if err := w.Write(tbl.Schema().Names()); err != nil {
				return err
			}
			for _, row := range rows {
				record := make([]string, len(row))
				for i, cell := range row {
					if cell == nil {
						continue
					}
					record[i] = render.FormatCell(cell)
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}

			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}

			render.Successf(cmd.Root().Writer, "Exported %d row(s) to %s", len(rows), file)
			return nil
		},
	}
}

// importTarget opens the destination table, creating it with an inferred
// schema when create is set and the table does not exist yet.
func importTarget(sess *shell.Session, table string, records [][]string, create bool) (*vtable.Table, error) {
	if sess.TableExists(table) {
		return sess.Database().OpenTable(table)
	}
	if !create {
		return nil, errors.Errorf("table %q not found in database (use --create)", table)
	}
	if len(records) < 2 {
		return nil, errors.New("cannot infer a schema without a data record")
	}

	schema, err := inferSchema(records[0], records[1])
	if err != nil {
		return nil, err
	}
	return sess.Database().CreateTable(table, schema)
}

// inferSchema derives column types from the header and the first data
// record, using the same coercion trials as set-clause values. A JSON
// array of numbers becomes a vector column with that dimension.
func inferSchema(header, first []string) (vtable.Schema, error) {
	if len(header) != len(first) {
		return vtable.Schema{}, errors.Errorf("header has %d columns but first record has %d", len(header), len(first))
	}

	columns := make([]vtable.Column, len(header))
	for i, name := range header {
		col := vtable.Column{Name: strings.TrimSpace(name)}

		v := setclause.Coerce(first[i])
		switch v.Kind {
		case setclause.KindInt:
			col.Type = vtable.TypeInt
		case setclause.KindFloat:
			col.Type = vtable.TypeFloat
		case setclause.KindBool:
			col.Type = vtable.TypeBool
		case setclause.KindJSON:
			if dim, ok := vectorDim(v.JSON); ok {
				col.Type = vtable.TypeVector
				col.Dim = dim
			} else {
				col.Type = vtable.TypeJSON
			}
		default:
			col.Type = vtable.TypeString
		}

		columns[i] = col
	}

	schema := vtable.Schema{Columns: columns}
	return schema, schema.Validate()
}

func vectorDim(v any) (int, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return 0, false
	}
	for _, el := range arr {
		if _, ok := el.(float64); !ok {
			return 0, false
		}
	}
	return len(arr), true
}

// parseCSVRecord converts one CSV record into a typed row per the schema.
// Empty fields become nulls.
func parseCSVRecord(schema vtable.Schema, record []string) (vtable.Row, error) {
	if len(record) != len(schema.Columns) {
		return nil, errors.Errorf("expected %d fields, got %d", len(schema.Columns), len(record))
	}

	row := make(vtable.Row, len(record))
	for i, field := range record {
		if field == "" {
			continue
		}

		cell, err := parseCSVCell(schema.Columns[i], field)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", schema.Columns[i].Name)
		}
		row[i] = cell
	}
	return row, nil
}

func parseCSVCell(col vtable.Column, field string) (any, error) {
	switch col.Type {
	case vtable.TypeInt:
		return strconv.ParseInt(field, 10, 64)
	case vtable.TypeFloat:
		return strconv.ParseFloat(field, 64)
	case vtable.TypeBool:
		return strconv.ParseBool(strings.ToLower(field))
	case vtable.TypeVector:
		var vec []float64
		if err := json.Unmarshal([]byte(field), &vec); err != nil {
			return nil, err
		}
		return vec, nil
	case vtable.TypeJSON:
		var v any
		if err := json.Unmarshal([]byte(field), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return field, nil
	}
}
