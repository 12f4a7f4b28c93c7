// Package shell implements the interactive session layer: routing input
// lines into directives or SQL, session state (database handle, cached
// table names, completion vocabulary), and the read-eval-print loop.
//
// The loop is a small state machine: AwaitingInput reads one logical line
// (physical lines are joined while the quote scan is unbalanced), Parsing
// classifies it, Dispatching executes it against the session, Rendering
// prints tabular results. Dispatching is the single error boundary: every
// failure inside it becomes a one-line colored message and the loop returns
// to AwaitingInput, so a bad command never ends the session.
package shell
