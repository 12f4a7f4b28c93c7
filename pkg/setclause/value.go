package setclause

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which variant a coerced Value holds.
type Kind int

const (
	// KindString is a raw or quoted string literal
	KindString Kind = iota
	// KindBool is a true/false literal
	KindBool
	// KindInt is an integral numeric literal
	KindInt
	// KindFloat is a fractional numeric literal
	KindFloat
	// KindJSON is a JSON array or object literal
	KindJSON
	// KindNull is a null/none literal
	KindNull
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindJSON:
		return "json"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is the tagged union produced by Coerce. Exactly one variant field is
// meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int64
	Float float64
	JSON  any
}

// Native unwraps the value into the plain Go representation used by the
// storage and query layers (int64, float64, bool, string, decoded JSON, or
// nil for null).
func (v Value) Native() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindJSON:
		return v.JSON
	case KindNull:
		return nil
	default:
		return v.Str
	}
}

// Coerce converts a literal string into a best-guess typed value. Trials run
// in a fixed order and the first success wins:
//
//  1. true/false (case-insensitive) -> bool
//  2. integer -> int
//  3. floating point -> float
//  4. JSON array or object -> decoded JSON
//  5. otherwise -> string, with one pair of matching surrounding quotes
//     stripped if present
//
// The order matters: a quoted numeric like "'30'" stays a string because
// the quote characters defeat the numeric trials, while a bare 30 becomes
// an integer. Coerce is total; the worst case returns the input unchanged.
func Coerce(s string) Value {
	switch strings.ToLower(s) {
	case "true":
		return Value{Kind: KindBool, Bool: true}
	case "false":
		return Value{Kind: KindBool, Bool: false}
	case "null", "none":
		return Value{Kind: KindNull}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: n}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Kind: KindFloat, Float: f}
	}

	if len(s) > 0 && (s[0] == '[' || s[0] == '{') {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			return Value{Kind: KindJSON, JSON: decoded}
		}
	}

	return Value{Kind: KindString, Str: stripQuotes(s)}
}

// stripQuotes removes one pair of matching single or double quotes wrapping
// the whole string. Unmatched or interior quotes are left alone.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}

	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}
