package shell

import (
	"strings"
	"unicode"
)

// directiveWords are completed with their leading dot so a bare "." offers
// the full directive menu.
var directiveWords = []string{
	".tables",
	".schema",
	".refresh",
	".update",
	".delete",
	".empty",
	".drop",
	".help",
	".h",
	".exit",
}

var sqlKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "ORDER", "HAVING",
	"LIMIT", "OFFSET", "AS", "AND", "OR", "NOT", "IN", "IS", "NULL",
	"LIKE", "BETWEEN", "DISTINCT", "COUNT", "SUM", "AVG", "MIN", "MAX",
	"JOIN", "LEFT", "RIGHT", "INNER", "OUTER", "ON", "UNION", "ALL",
	"CASE", "WHEN", "THEN", "ELSE", "END", "ASC", "DESC",
}

// sessionCompleter completes the word under the cursor against the
// session's vocabulary, so table names appear as soon as a refresh sees
// them.
type sessionCompleter struct {
	session *Session
}

// NewCompleter builds a completer backed by the session's current
// vocabulary.
func NewCompleter(s *Session) *sessionCompleter {
	return &sessionCompleter{session: s}
}

// Do implements readline.AutoCompleter. Matching is case-insensitive and
// candidates are returned as suffixes of the typed prefix.
func (c *sessionCompleter) Do(line []rune, pos int) ([][]rune, int) {
	word := lastWord(string(line[:pos]))
	if word == "" {
		return nil, 0
	}

	var out [][]rune
	for _, candidate := range c.session.Vocabulary() {
		if len(candidate) < len(word) {
			continue
		}
		if strings.EqualFold(candidate[:len(word)], word) {
			out = append(out, []rune(candidate[len(word):]))
		}
	}
	return out, len([]rune(word))
}

func lastWord(s string) string {
	cut := strings.LastIndexFunc(s, unicode.IsSpace)
	return s[cut+1:]
}
