// Package output provides output formatting for the fitplan CLI.
//
// Values printed in table mode implement Tabular and choose their own
// columns; Wide adds the optional ones. JSON and YAML print the value
// itself, and YAML is derived from the JSON encoding so json tags drive
// both.
package output
