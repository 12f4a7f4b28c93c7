// Package render turns tabular query results into ASCII tables or JSON and
// provides the colored status line helpers used across the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lsql-dev/lsql/pkg/consts"
	"github.com/lsql-dev/lsql/pkg/engine"
)

// Mode selects how a tabular result is rendered.
type Mode string

const (
	// ModeTable renders an ASCII table with capped column widths.
	ModeTable Mode = "table"
	// ModeJSON renders an ordered sequence of row objects with the
	// original, untruncated values.
	ModeJSON Mode = "json"
)

// ParseMode validates an output mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTable, ModeJSON:
		return Mode(s), nil
	default:
		return "", errors.Errorf("unknown output mode %q (want table or json)", s)
	}
}

// Options controls table rendering.
type Options struct {
	// MaxWidth caps each column's width; longer cells are truncated with
	// a trailing ellipsis. Zero or negative means the default cap.
	MaxWidth int
}

// Render writes the result in the given mode. The result is never mutated.
func Render(w io.Writer, r *engine.Result, mode Mode, opts Options) error {
	if mode == ModeJSON {
		return JSON(w, r)
	}
	Table(w, r, opts)
	return nil
}

// Table renders the result as an ASCII table. An empty row set still gets
// its headers; a result with no columns renders an explicit notice.
func Table(w io.Writer, r *engine.Result, opts Options) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = consts.DefaultMaxFieldWidth
	}

	cols := len(r.Columns)
	if cols == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	// Column width is the max of the header and every cell, capped.
	widths := make([]int, cols)
	for i, name := range r.Columns {
		widths[i] = len(name)
	}
	for _, row := range r.Rows {
		for i, cell := range row {
			if l := len(FormatCell(cell)); l > widths[i] {
				if l > opts.MaxWidth {
					l = opts.MaxWidth
				}
				widths[i] = l
			}
		}
	}

	sep := func(ch string) string {
		var b strings.Builder
		b.WriteString("+")
		for _, width := range widths {
			b.WriteString(strings.Repeat(ch, width+2))
			b.WriteString("+")
		}
		return b.String()
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(padRight(truncate(c, widths[i]), widths[i]))
			b.WriteString(" |")
		}
		fmt.Fprintln(w, b.String())
	}

	fmt.Fprintln(w, sep("-"))
	writeRow(r.Columns)
	fmt.Fprintln(w, sep("="))

	for _, row := range r.Rows {
		cells := make([]string, cols)
		for i, cell := range row {
			cells[i] = FormatCell(cell)
		}
		writeRow(cells)
	}
	fmt.Fprintln(w, sep("-"))
	fmt.Fprintf(w, "%d row(s)\n", len(r.Rows))
}

// JSON renders the result as an array of row objects keyed by column name,
// preserving column order and original values.
func JSON(w io.Writer, r *engine.Result) error {
	var b strings.Builder
	b.WriteString("[")

	for ri, row := range r.Rows {
		if ri > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  {")
		for ci, name := range r.Columns {
			if ci > 0 {
				b.WriteString(", ")
			}
			key, err := json.Marshal(name)
			if err != nil {
				return errors.Wrap(err, "failed to render result")
			}
			value, err := json.Marshal(row[ci])
			if err != nil {
				return errors.Wrap(err, "failed to render result")
			}
			b.Write(key)
			b.WriteString(": ")
			b.Write(value)
		}
		b.WriteString("}")
	}

	if len(r.Rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "failed to render result")
}

// FormatCell converts a cell value to its display string.
func FormatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []byte:
		return string(t)
	case []float64:
		parts := make([]string, len(t))
		for i, f := range t {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
