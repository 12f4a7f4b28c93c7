package vtable

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lsql-dev/lsql/pkg/consts"
	"github.com/pkg/errors"
)

// Table is an open handle on one table file.
type Table struct {
	name   string
	path   string
	schema Schema
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Schema returns the table schema.
func (t *Table) Schema() Schema { return t.schema }

// Scan reads every row into memory and returns the snapshot. The returned
// rows are decoded into native values per the column types.
func (t *Table) Scan() ([]Row, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open table %q", t.name)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	// First line is the schema header.
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to read table %q", t.name)
		}
		return nil, errors.Errorf("table %q is missing its schema header", t.name)
	}

	var rows []Row
	for scanner.Scan() {
		row, err := t.decodeRow(scanner.Bytes())
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt row in table %q", t.name)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read table %q", t.name)
	}

	return rows, nil
}

// Count returns the number of rows.
func (t *Table) Count() (int, error) {
	rows, err := t.Scan()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Insert appends rows to the table. Every row must match the column count;
// cell values are checked against the column types.
func (t *Table) Insert(rows []Row) error {
	existing, err := t.Scan()
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) != len(t.schema.Columns) {
			return errors.Errorf("row has %d values, table %q has %d columns", len(row), t.name, len(t.schema.Columns))
		}
		for i, cell := range row {
			converted, err := convertCell(cell, t.schema.Columns[i])
			if err != nil {
				return err
			}
			row[i] = converted
		}
	}

	return t.rewrite(append(existing, rows...))
}

// UpdateRows applies the column=value assignments to the rows at the given
// indexes and returns the number of rows changed. Unknown columns or
// type-incompatible values are rejected before anything is written.
func (t *Table) UpdateRows(indexes []int, values map[string]any) (int, error) {
	rows, err := t.Scan()
	if err != nil {
		return 0, err
	}

	// Resolve columns and convert values up front so a bad assignment
	// cannot leave the table half updated.
	type assignment struct {
		col   int
		value any
	}
	assignments := make([]assignment, 0, len(values))
	for name, value := range values {
		idx := -1
		for i, c := range t.schema.Columns {
			if c.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, errors.Errorf("table %q has no column %q", t.name, name)
		}
		converted, err := convertCell(value, t.schema.Columns[idx])
		if err != nil {
			return 0, err
		}
		assignments = append(assignments, assignment{col: idx, value: converted})
	}

	updated := 0
	for _, ri := range indexes {
		if ri < 0 || ri >= len(rows) {
			return 0, errors.Errorf("row index %d out of range for table %q", ri, t.name)
		}
		for _, a := range assignments {
			rows[ri][a.col] = a.value
		}
		updated++
	}

	if err := t.rewrite(rows); err != nil {
		return 0, err
	}
	return updated, nil
}

// DeleteRows removes the rows at the given indexes and returns how many
// were removed.
func (t *Table) DeleteRows(indexes []int) (int, error) {
	rows, err := t.Scan()
	if err != nil {
		return 0, err
	}

	drop := make(map[int]struct{}, len(indexes))
	for _, ri := range indexes {
		if ri < 0 || ri >= len(rows) {
			return 0, errors.Errorf("row index %d out of range for table %q", ri, t.name)
		}
		drop[ri] = struct{}{}
	}

	kept := rows[:0]
	for i, row := range rows {
		if _, gone := drop[i]; !gone {
			kept = append(kept, row)
		}
	}

	if err := t.rewrite(kept); err != nil {
		return 0, err
	}
	return len(drop), nil
}

// Empty removes every row and returns the number deleted.
func (t *Table) Empty() (int, error) {
	rows, err := t.Scan()
	if err != nil {
		return 0, err
	}

	if err := t.rewrite(nil); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// rewrite atomically replaces the table file with the schema header and the
// given rows.
func (t *Table) rewrite(rows []Row) error {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), "."+t.name+".*")
	if err != nil {
		return errors.Wrapf(err, "failed to write table %q", t.name)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write table %q", t.name)
	}

	header, err := json.Marshal(t.schema)
	if err != nil {
		return fail(err)
	}
	if _, err := w.Write(append(header, '\n')); err != nil {
		return fail(err)
	}

	for _, row := range rows {
		line, err := t.encodeRow(row)
		if err != nil {
			return fail(err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fail(err)
		}
	}

	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write table %q", t.name)
	}
	if err := os.Chmod(tmpPath, consts.ModeFile); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write table %q", t.name)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write table %q", t.name)
	}
	return nil
}

func (t *Table) loadSchema() error {
	f, err := os.Open(t.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open table %q", t.name)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		return errors.Errorf("table %q is missing its schema header", t.name)
	}

	var schema Schema
	if err := json.Unmarshal(scanner.Bytes(), &schema); err != nil {
		return errors.Wrapf(err, "corrupt schema header in table %q", t.name)
	}
	if err := schema.Validate(); err != nil {
		return errors.Wrapf(err, "invalid schema in table %q", t.name)
	}

	t.schema = schema
	return nil
}
