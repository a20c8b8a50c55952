package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the REPL itself.
var builtins = []string{"exit", "history", "quit"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the given command paths,
// e.g. "session show". Built-in lines are always included.
func NewCompleter(commands []string) *Completer {
	all := append(append([]string{}, commands...), builtins...)
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns the command paths starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
