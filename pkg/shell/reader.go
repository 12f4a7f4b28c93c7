package shell

import (
	"bufio"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

// ErrInterrupted reports that the user pressed Ctrl-C while a line was
// being read. The loop discards the pending input and keeps running.
var ErrInterrupted = errors.New("interrupted")

// LineSource supplies physical input lines. Implementations return io.EOF
// when input is exhausted.
type LineSource interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ReadLogical reads one logical line from src. Directives are always a
// single physical line. For SQL, further physical lines are solicited and
// joined with newlines while the quote scan of the accumulated text is
// unbalanced. This is a cheap heuristic, not a parser: it only has to catch
// a statement whose string literal continues on the next line.
func ReadLogical(src LineSource, prompt, continuePrompt string) (string, error) {
	first, err := src.ReadLine(prompt)
	if err != nil {
		return "", err
	}

	line := strings.TrimSpace(first)
	if line == "" || strings.HasPrefix(line, ".") {
		return line, nil
	}

	for unbalancedQuotes(line) {
		next, err := src.ReadLine(continuePrompt)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		line += "\n" + strings.TrimRight(next, " \t\r")
	}

	return strings.TrimSpace(line), nil
}

// unbalancedQuotes reports whether the text ends inside a single- or
// double-quoted literal. Doubled quotes escape themselves and -- line
// comments are skipped, matching common SQL lexing.
func unbalancedQuotes(s string) bool {
	inSingle, inDouble, inComment := false, false, false

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			inComment = false
			continue
		}
		if inComment {
			continue
		}

		if r == '-' && !inSingle && !inDouble && i+1 < len(runes) && runes[i+1] == '-' {
			inComment = true
			i++
			continue
		}

		if r == '\'' && !inDouble {
			if inSingle && i+1 < len(runes) && runes[i+1] == '\'' {
				i++
				continue
			}
			inSingle = !inSingle
			continue
		}

		if r == '"' && !inSingle {
			if inDouble && i+1 < len(runes) && runes[i+1] == '"' {
				i++
				continue
			}
			inDouble = !inDouble
		}
	}

	return inSingle || inDouble
}

type scriptSource struct {
	scanner *bufio.Scanner
}

// NewScriptSource reads lines from r without prompting or history. It is
// used when stdin is not a terminal and in tests.
func NewScriptSource(r io.Reader) LineSource {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &scriptSource{scanner: s}
}

func (s *scriptSource) ReadLine(string) (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scriptSource) Close() error { return nil }

type readlineSource struct {
	rl *readline.Instance
}

// NewReadlineSource builds an interactive line source with history and tab
// completion. Accepted lines are appended to the history file on accept,
// before the command runs, so recall includes attempts that later failed.
func NewReadlineSource(historyFile string, completer readline.AutoCompleter) (LineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:       historyFile,
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize line editor")
	}
	return &readlineSource{rl: rl}, nil
}

func (s *readlineSource) ReadLine(prompt string) (string, error) {
	s.rl.SetPrompt(prompt)

	line, err := s.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (s *readlineSource) Close() error { return s.rl.Close() }
