package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Run commands interactively",
		Description: "Lines are run as fitplan commands with the global flags of this\n" +
			"invocation. Commands that read stdin see empty input.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not load or save the history file",
			},
		},
		Action: runRepl,
	}
}

func runRepl(c *cli.Context) error {
	hist := repl.NewHistory("", repl.DefaultHistorySize)
	if !c.Bool("no-history") {
		hist = repl.NewHistory(historyFile(), repl.DefaultHistorySize)
		if err := hist.Load(); err != nil {
			getLogger(c).Warn("history not loaded", "error", err)
		}
	}

	global := forwardedFlags(c)
	exec := func(ctx context.Context, args []string) error {
		if len(args) > 0 && args[0] == "repl" {
			return fmt.Errorf("already in interactive mode")
		}
		sub := App()
		sub.Writer = c.App.Writer
		sub.ErrWriter = c.App.ErrWriter
		sub.Reader = strings.NewReader("")
		// Errors are printed by the sub-app's ExitErrHandler.
		_ = sub.RunContext(ctx, append(append([]string{c.App.Name}, global...), args...))
		return nil
	}

	r := repl.New(c.App.Reader, c.App.Writer, exec,
		repl.WithHistory(hist),
		repl.WithCompleter(repl.NewCompleter(commandPaths(c.App.Commands, ""))),
	)
	err := r.Run(c.Context)

	if serr := hist.Save(); serr != nil {
		getLogger(c).Warn("history not saved", "error", serr)
	}
	return err
}

// historyFile lives next to the default config file.
func historyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fitplan", "history")
}

// forwardedFlags rebuilds the explicitly set global flags.
func forwardedFlags(c *cli.Context) []string {
	var out []string
	for _, f := range c.App.Flags {
		name := f.Names()[0]
		if !c.IsSet(name) {
			continue
		}
		out = append(out, fmt.Sprintf("--%s=%v", name, c.Value(name)))
	}
	return out
}

// commandPaths lists "group sub" paths of cmds for completion.
func commandPaths(cmds []*cli.Command, parent string) []string {
	var out []string
	for _, cmd := range cmds {
		if cmd.Hidden || cmd.Name == "repl" {
			continue
		}
		path := strings.TrimSpace(parent + " " + cmd.Name)
		out = append(out, path)
		out = append(out, commandPaths(cmd.Subcommands, path)...)
	}
	return out
}
