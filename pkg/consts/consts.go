package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultMaxFieldWidth is the widest a rendered table cell may be
	// before it is truncated with an ellipsis
	DefaultMaxFieldWidth = 50

	// DefaultPrompt is shown when the shell is waiting for a new statement
	DefaultPrompt = "lsql> "

	// DefaultContinuePrompt is shown while a multi-line statement is open
	DefaultContinuePrompt = "  ...> "

	// DefaultHistoryFile is the history file name, created under the
	// user's home directory
	DefaultHistoryFile = ".lsql_history"

	// DefaultOutput is the default result rendering mode
	DefaultOutput = "table"

	// TableFileExt is the file extension for table files inside a
	// database directory
	TableFileExt = ".tbl"
)
