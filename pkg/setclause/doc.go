// Package setclause parses the textual column=value assignment lists used
// by update operations and provides the ordered-trial value coercion shared
// with directive argument parsing.
//
// A set clause is a comma-separated list of assignments:
//
//	age=31,name='John Smith',active=true,tags=["a","b"]
//
// Quoted strings and bracketed JSON literals are tokenized whole, so commas
// inside them do not split pairs. Each value is coerced to a typed Value
// with fixed trial order (bool, int, float, JSON, string); quoting forces a
// value to stay a string.
package setclause
