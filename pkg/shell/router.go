package shell

import (
	"strings"
	"unicode"
)

// CommandKind classifies one logical input line.
type CommandKind int

const (
	// CmdEmpty is a blank line; nothing to do.
	CmdEmpty CommandKind = iota
	// CmdQuery is a pass-through SQL statement.
	CmdQuery
	// CmdDirective is a dot-prefixed shell directive.
	CmdDirective
)

// Command is the routed form of one input line. It lives for a single
// dispatch and is then discarded.
type Command struct {
	Kind CommandKind

	// SQL holds the verbatim statement for CmdQuery.
	SQL string

	// Name and Args hold the directive name (without the dot) and its
	// ordered arguments for CmdDirective.
	Name string
	Args []string
}

// Route classifies a logical line, already stripped of surrounding
// whitespace. Directive names are case-sensitive; an unknown name or a
// missing required argument yields a validation error and no command.
func Route(line string) (*Command, error) {
	if line == "" {
		return &Command{Kind: CmdEmpty}, nil
	}

	if !strings.HasPrefix(line, ".") {
		return &Command{Kind: CmdQuery, SQL: line}, nil
	}

	name := splitFields(line, 2)[0][1:]

	switch name {
	case "tables", "refresh", "exit", "help", "h":
		if len(splitFields(line, 2)) > 1 {
			return nil, Validationf("usage: .%s", name)
		}
		return &Command{Kind: CmdDirective, Name: name}, nil

	case "schema":
		parts := splitFields(line, 2)
		cmd := &Command{Kind: CmdDirective, Name: name}
		if len(parts) > 1 {
			cmd.Args = parts[1:]
		}
		return cmd, nil

	case "empty", "drop":
		parts := splitFields(line, 2)
		if len(parts) < 2 {
			return nil, Validationf("missing table argument, usage: .%s <table>", name)
		}
		return &Command{Kind: CmdDirective, Name: name, Args: parts[1:]}, nil

	case "delete":
		parts := splitFields(line, 3)
		if len(parts) < 2 {
			return nil, Validationf("missing table argument, usage: .delete <table> <where-clause>")
		}
		if len(parts) < 3 {
			return nil, Validationf("missing where-clause argument, usage: .delete <table> <where-clause>")
		}
		return &Command{Kind: CmdDirective, Name: name, Args: parts[1:]}, nil

	case "update":
		parts := splitFields(line, 4)
		if len(parts) < 2 {
			return nil, Validationf("missing table argument, usage: .update <table> <set-clause> <where-clause>")
		}
		if len(parts) < 3 {
			return nil, Validationf("missing set-clause argument, usage: .update <table> <set-clause> <where-clause>")
		}
		if len(parts) < 4 {
			return nil, Validationf("missing where-clause argument, usage: .update <table> <set-clause> <where-clause>")
		}
		return &Command{Kind: CmdDirective, Name: name, Args: parts[1:]}, nil

	default:
		return nil, Validationf("unknown command: .%s", name)
	}
}

// splitFields splits on runs of whitespace into at most n parts; the final
// part keeps its interior whitespace verbatim.
func splitFields(s string, n int) []string {
	var parts []string
	rest := strings.TrimSpace(s)

	for len(parts) < n-1 {
		cut := strings.IndexFunc(rest, unicode.IsSpace)
		if cut < 0 {
			break
		}
		parts = append(parts, rest[:cut])
		rest = strings.TrimLeftFunc(rest[cut:], unicode.IsSpace)
	}

	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
