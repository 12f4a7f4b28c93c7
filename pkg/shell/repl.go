package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lsql-dev/lsql/pkg/engine"
	"github.com/lsql-dev/lsql/pkg/render"
	"github.com/lsql-dev/lsql/pkg/vtable"
)

// Options control prompting and result rendering for one REPL run.
type Options struct {
	Prompt         string
	ContinuePrompt string
	MaxFieldWidth  int
	Mode           render.Mode
}

type state int

const (
	stateAwaitingInput state = iota
	stateParsing
	stateDispatching
	stateRendering
	stateTerminated
)

// REPL drives the interactive loop over a session and a line source. One
// REPL serves one session; it is not reusable after Run returns.
type REPL struct {
	session *Session
	src     LineSource
	out     io.Writer
	errOut  io.Writer
	opts    Options

	exitRequested bool
}

// NewREPL wires a loop over an open session. out receives results and
// informational messages, errOut receives error lines.
func NewREPL(session *Session, src LineSource, out, errOut io.Writer, opts Options) *REPL {
	return &REPL{session: session, src: src, out: out, errOut: errOut, opts: opts}
}

// Run executes the loop until .exit or end of input. A failed command
// prints one line and the loop continues; only a read error other than
// interrupt or EOF is returned.
func (r *REPL) Run(ctx context.Context) error {
	r.welcome()

	var (
		line   string
		cmd    *Command
		result *engine.Result
	)

	current := stateAwaitingInput
	for current != stateTerminated {
		switch current {
		case stateAwaitingInput:
			var err error
			line, err = ReadLogical(r.src, r.opts.Prompt, r.opts.ContinuePrompt)
			if err == ErrInterrupted {
				render.Warnf(r.errOut, "Interrupted")
				continue
			}
			if err == io.EOF {
				current = stateTerminated
				continue
			}
			if err != nil {
				return err
			}
			current = stateParsing

		case stateParsing:
			var err error
			cmd, err = Route(line)
			if err != nil {
				r.printError(err)
				current = stateAwaitingInput
				continue
			}
			if cmd.Kind == CmdEmpty {
				current = stateAwaitingInput
				continue
			}
			current = stateDispatching

		case stateDispatching:
			var err error
			result, err = r.dispatch(ctx, cmd)
			if err != nil {
				r.printError(err)
				current = stateAwaitingInput
				continue
			}
			if r.exitRequested {
				current = stateTerminated
				continue
			}
			current = stateRendering

		case stateRendering:
			if result != nil {
				opts := render.Options{MaxWidth: r.opts.MaxFieldWidth}
				if err := render.Render(r.out, result, r.opts.Mode, opts); err != nil {
					r.printError(err)
				}
				result = nil
			}
			current = stateAwaitingInput
		}
	}

	return nil
}

// dispatch executes one routed command. A nil result with a nil error means
// the command printed its own output (or had none).
func (r *REPL) dispatch(ctx context.Context, cmd *Command) (*engine.Result, error) {
	if cmd.Kind == CmdQuery {
		return r.session.Query(ctx, cmd.SQL)
	}

	switch cmd.Name {
	case "tables":
		return r.session.TablesResult(), nil

	case "schema":
		if len(cmd.Args) == 1 {
			return nil, r.printSchema(cmd.Args[0])
		}
		for _, name := range r.session.Tables() {
			if err := r.printSchema(name); err != nil {
				return nil, err
			}
		}
		return nil, nil

	case "refresh":
		render.Infof(r.out, "Refreshing table snapshots...")
		if err := r.session.Refresh(ctx); err != nil {
			return nil, err
		}
		render.Successf(r.out, "Refreshed %d table(s)", len(r.session.Tables()))
		return nil, nil

	case "update":
		updated, columns, err := r.session.Update(ctx, cmd.Args[0], cmd.Args[1], cmd.Args[2])
		if err != nil {
			return nil, err
		}
		render.Successf(r.out, "Updated %d row(s) in '%s' (columns: %s)",
			updated, cmd.Args[0], strings.Join(columns, ", "))
		return nil, nil

	case "delete":
		before, after, err := r.session.Delete(ctx, cmd.Args[0], cmd.Args[1])
		if err != nil {
			return nil, err
		}
		render.Successf(r.out, "Deleted %d row(s) from '%s' (%d remaining)",
			before-after, cmd.Args[0], after)
		return nil, nil

	case "empty":
		deleted, err := r.session.EmptyTable(ctx, cmd.Args[0])
		if err != nil {
			return nil, err
		}
		render.Successf(r.out, "Emptied '%s', %d row(s) removed", cmd.Args[0], deleted)
		return nil, nil

	case "drop":
		return nil, r.dropWithConfirmation(ctx, cmd.Args[0])

	case "help", "h":
		r.printHelp()
		return nil, nil

	case "exit":
		r.exitRequested = true
		return nil, nil
	}

	// Route only emits names handled above.
	return nil, Validationf("unknown command: .%s", cmd.Name)
}

// dropWithConfirmation prompts before dropping. Anything but a literal
// "yes" cancels.
func (r *REPL) dropWithConfirmation(ctx context.Context, table string) error {
	if !r.session.TableExists(table) {
		return NotFoundf("table %q not found in database", table)
	}

	render.Warnf(r.out, "This will permanently delete table '%s' and all of its rows.", table)
	answer, err := r.src.ReadLine("Are you sure? (yes/no): ")
	if err == ErrInterrupted || err == io.EOF {
		render.Infof(r.out, "Drop cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	if strings.TrimSpace(answer) != "yes" {
		render.Infof(r.out, "Drop cancelled")
		return nil
	}

	if err := r.session.DropTable(ctx, table); err != nil {
		return err
	}
	render.Successf(r.out, "Dropped table '%s'", table)
	return nil
}

func (r *REPL) printSchema(name string) error {
	schema, err := r.session.SchemaOf(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s:\n", name)
	for _, col := range schema.Columns {
		fmt.Fprintf(r.out, "  %s\n", columnLine(col))
	}
	return nil
}

func columnLine(col vtable.Column) string {
	if col.Type == vtable.TypeVector {
		return fmt.Sprintf("%s: vector(%d)", col.Name, col.Dim)
	}
	return fmt.Sprintf("%s: %s", col.Name, col.Type)
}

func (r *REPL) welcome() {
	render.Infof(r.out, "Connected to %s", r.session.Database().Path())
	fmt.Fprintln(r.out, "Enter SQL to query table snapshots, or a directive:")
	r.printHelp()
}

func (r *REPL) printHelp() {
	lines := []string{
		"  .tables                                list tables",
		"  .schema [table]                        show schema of one or all tables",
		"  .refresh                               reload table snapshots",
		"  .update <table> <set> <where>          update matching rows",
		"  .delete <table> <where>                delete matching rows",
		"  .empty <table>                         delete all rows",
		"  .drop <table>                          drop a table (asks for confirmation)",
		"  .help, .h                              show this help",
		"  .exit                                  leave the shell",
	}
	for _, l := range lines {
		fmt.Fprintln(r.out, l)
	}
}

// printError is the single presentation point for dispatch failures.
// Validation problems are warnings; everything else is an error line.
func (r *REPL) printError(err error) {
	switch Classify(err) {
	case KindValidation:
		render.Warnf(r.errOut, "Error: %v", err)
	default:
		render.Errorf(r.errOut, "Error: %v", err)
	}
}
