package vtable

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// encodeRow serializes a row as a JSON array aligned to the schema columns.
func (t *Table) encodeRow(row Row) ([]byte, error) {
	if len(row) != len(t.schema.Columns) {
		return nil, errors.Errorf("row has %d values, expected %d", len(row), len(t.schema.Columns))
	}
	return json.Marshal([]any(row))
}

// decodeRow parses one stored line back into native cell values.
func (t *Table) decodeRow(line []byte) (Row, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, err
	}
	if len(raw) != len(t.schema.Columns) {
		return nil, errors.Errorf("row has %d values, expected %d", len(raw), len(t.schema.Columns))
	}

	row := make(Row, len(raw))
	for i, cell := range raw {
		value, err := decodeCell(cell, t.schema.Columns[i])
		if err != nil {
			return nil, err
		}
		row[i] = value
	}
	return row, nil
}

func decodeCell(raw json.RawMessage, col Column) (any, error) {
	if string(raw) == "null" {
		return nil, nil
	}

	switch col.Type {
	case TypeInt:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		return n, nil
	case TypeFloat:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		return f, nil
	case TypeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		return b, nil
	case TypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		return s, nil
	case TypeVector:
		var v []float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		return v, nil
	default: // TypeJSON
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		return v, nil
	}
}

// convertCell checks a caller-supplied value against the column type and
// normalizes it to the canonical in-memory representation. Integers widen
// into float columns; everything else must match.
func convertCell(value any, col Column) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch col.Type {
	case TypeInt:
		if n, ok := value.(int64); ok {
			return n, nil
		}
		if n, ok := value.(int); ok {
			return int64(n), nil
		}
	case TypeFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case TypeBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case TypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case TypeVector:
		switch v := value.(type) {
		case []float64:
			if col.Dim > 0 && len(v) != col.Dim {
				return nil, errors.Errorf("column %q expects a vector of dimension %d, got %d", col.Name, col.Dim, len(v))
			}
			return v, nil
		case []any:
			vec := make([]float64, len(v))
			for i, e := range v {
				f, ok := toFloat(e)
				if !ok {
					return nil, errors.Errorf("column %q expects numeric vector elements", col.Name)
				}
				vec[i] = f
			}
			if col.Dim > 0 && len(vec) != col.Dim {
				return nil, errors.Errorf("column %q expects a vector of dimension %d, got %d", col.Name, col.Dim, len(vec))
			}
			return vec, nil
		}
	case TypeJSON:
		return value, nil
	}

	return nil, errors.Errorf("value %v (%T) is not valid for column %q (%s)", value, value, col.Name, col.Type)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
