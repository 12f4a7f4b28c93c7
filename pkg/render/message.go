package render

import (
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

// Successf writes a green status line.
func Successf(w io.Writer, format string, args ...any) {
	_, _ = successColor.Fprintf(w, format+"\n", args...)
}

// Warnf writes a yellow status line.
func Warnf(w io.Writer, format string, args ...any) {
	_, _ = warnColor.Fprintf(w, format+"\n", args...)
}

// Errorf writes a red status line.
func Errorf(w io.Writer, format string, args ...any) {
	_, _ = errorColor.Fprintf(w, format+"\n", args...)
}

// Infof writes a cyan status line.
func Infof(w io.Writer, format string, args ...any) {
	_, _ = infoColor.Fprintf(w, format+"\n", args...)
}
