package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// DefaultPrompt is printed before every line.
const DefaultPrompt = "fitplan> "

// Executor runs one parsed line.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithPrompt replaces DefaultPrompt.
func WithPrompt(p string) Option {
	return func(r *REPL) { r.prompt = p }
}

// WithHistory sets the history used for the session.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithCompleter sets the completer consulted for "PREFIX?" lines.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) { r.completer = c }
}

// New creates a REPL reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer, exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     in,
		output:    out,
		prompt:    DefaultPrompt,
		exec:      exec,
		completer: NewCompleter(nil),
		history:   NewHistory("", DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until EOF, exit or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		r.history.Add(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		r.dispatch(ctx, line)

		if eof {
			return nil
		}
	}
}

func (r *REPL) dispatch(ctx context.Context, line string) {
	switch {
	case line == "history":
		for i := r.history.Len() - 1; i >= 0; i-- {
			fmt.Fprintf(r.output, "%4d  %s\n", r.history.Len()-i, r.history.Get(i))
		}
		return
	case strings.HasSuffix(line, "?"):
		for _, s := range r.completer.Complete(strings.TrimSpace(strings.TrimSuffix(line, "?"))) {
			fmt.Fprintln(r.output, s)
		}
		return
	}

	args, err := Split(line)
	if err != nil {
		fmt.Fprintf(r.output, "error: %v\n", err)
		return
	}
	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "error: %v\n", err)
	}
}

// Split breaks line into arguments. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)
	for _, c := range line {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inArg = true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(c)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
