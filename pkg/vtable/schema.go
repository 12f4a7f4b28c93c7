package vtable

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ColumnType enumerates the value types a column may hold.
type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeBool   ColumnType = "bool"
	TypeString ColumnType = "string"
	TypeVector ColumnType = "vector"
	TypeJSON   ColumnType = "json"
)

type (
	// Column describes one typed column. Dim is only meaningful for
	// vector columns and records the expected dimensionality (0 = any).
	Column struct {
		Name string     `json:"name"`
		Type ColumnType `json:"type"`
		Dim  int        `json:"dim,omitempty"`
	}

	// Schema is the ordered column list of a table.
	Schema struct {
		Columns []Column `json:"columns"`
	}

	// Row holds one record's cell values aligned to the schema columns.
	// Cell types are int64, float64, bool, string, []float64 (vector),
	// decoded JSON, or nil.
	Row []any
)

// Validate checks that the schema has at least one column and no duplicate
// or empty column names.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return errors.New("schema must define at least one column")
	}

	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return errors.New("schema contains a column with an empty name")
		}
		if _, dup := seen[c.Name]; dup {
			return errors.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}

		switch c.Type {
		case TypeInt, TypeFloat, TypeBool, TypeString, TypeVector, TypeJSON:
		default:
			return errors.Errorf("column %q has unknown type %q", c.Name, c.Type)
		}
	}

	return nil
}

// Column returns the column with the given name, or false if absent.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// String renders the schema as a readable column listing, one column per
// line, e.g. "name: string" or "embedding: vector(384)".
func (s Schema) String() string {
	var b strings.Builder
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteByte('\n')
		}
		if c.Type == TypeVector && c.Dim > 0 {
			fmt.Fprintf(&b, "%s: vector(%d)", c.Name, c.Dim)
		} else {
			fmt.Fprintf(&b, "%s: %s", c.Name, c.Type)
		}
	}
	return b.String()
}
