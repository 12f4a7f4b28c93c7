package setclause

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// clauseLexer tokenizes comma-separated column=value assignments.
	// Quoted strings and bracketed JSON literals are single tokens so that
	// commas inside them do not split pairs.
	clauseLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
		{Name: "JSON", Pattern: `\[[^\]]*\]|\{[^}]*\}`},
		{Name: "Number", Pattern: `-?\d+(\.\d+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `[=,]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	clauseParser = participle.MustBuild[clause](
		participle.Lexer(clauseLexer),
		participle.Elide("Whitespace"),
	)
)

type (
	clause struct {
		Pairs []*pair `parser:"@@ ( ',' @@ )*"`
	}

	pair struct {
		Column string `parser:"@Ident '='"`
		Value  string `parser:"@(String | JSON | Number | Ident)"`
	}
)

// Assignment is one parsed column=value pair with its coerced value.
type Assignment struct {
	Column string
	Value  Value
}

// SetClause is an ordered list of assignments with unique column names.
type SetClause struct {
	Assignments []Assignment
}

// Parse parses a comma-separated list of column=value pairs. Values may be
// single- or double-quoted; unquoted literals are coerced per Coerce. A
// malformed pair or a repeated column name rejects the whole clause with an
// error naming the offending input; nothing partial is returned.
func Parse(input string) (*SetClause, error) {
	parsed, err := clauseParser.ParseString("", input)
	if err != nil {
		return nil, errors.Wrap(err, "invalid set clause, expected column=value pairs separated by commas")
	}

	sc := &SetClause{Assignments: make([]Assignment, 0, len(parsed.Pairs))}
	seen := make(map[string]struct{}, len(parsed.Pairs))

	for _, p := range parsed.Pairs {
		if _, dup := seen[p.Column]; dup {
			return nil, errors.Errorf("column %q assigned more than once in set clause", p.Column)
		}
		seen[p.Column] = struct{}{}

		sc.Assignments = append(sc.Assignments, Assignment{
			Column: p.Column,
			Value:  Coerce(p.Value),
		})
	}

	return sc, nil
}

// Columns returns the assigned column names in clause order.
func (sc *SetClause) Columns() []string {
	cols := make([]string, len(sc.Assignments))
	for i, a := range sc.Assignments {
		cols[i] = a.Column
	}
	return cols
}

// Values returns the assignments as a column -> native value map.
func (sc *SetClause) Values() map[string]any {
	values := make(map[string]any, len(sc.Assignments))
	for _, a := range sc.Assignments {
		values[a.Column] = a.Value.Native()
	}
	return values
}
