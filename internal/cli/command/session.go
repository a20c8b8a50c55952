package command

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/cli/output"
	"github.com/yndnr/fitplan-go/internal/core/domain"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect the cached signed-in user",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the current session state",
				Action: sessionShow,
			},
			{
				Name:      "set",
				Usage:     "Store a user record (JSON object)",
				ArgsUsage: "[RECORD_JSON]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the record from FILE, - for stdin",
					},
				},
				Action: sessionSet,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored user record",
				Action: sessionClear,
			},
		},
	}
}

func sessionShow(c *cli.Context) (err error) {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	reader := a.Sessions.Open(c.Context)
	defer reader.Release()

	st, err := reader.Wait(c.Context)
	if err != nil {
		return err
	}
	return printSession(c, st)
}

func sessionSet(c *cli.Context) (err error) {
	raw, err := readRecordArg(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	if err := a.Sessions.SaveRaw(c.Context, raw); err != nil {
		return cli.Exit(describe(err), 1)
	}
	return printSession(c, a.Sessions.Load(c.Context))
}

func sessionClear(c *cli.Context) (err error) {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	if err := a.Sessions.Clear(c.Context); err != nil {
		return cli.Exit(describe(err), 1)
	}
	if isTable(c) {
		fmt.Fprintln(c.App.Writer, "Session cleared.")
		return nil
	}
	return printOutput(c, domain.SessionState{Status: domain.SessionNone})
}

// readRecordArg returns the record from the argument, --file or stdin.
func readRecordArg(c *cli.Context) (string, error) {
	if c.Args().Present() {
		return c.Args().First(), nil
	}

	var r io.Reader
	switch path := c.String("file"); path {
	case "":
		return "", fmt.Errorf("a record argument or --file is required")
	case "-":
		r = c.App.Reader
	default:
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// printSession renders the status and, in table mode, one row per record field.
func printSession(c *cli.Context, st domain.SessionState) error {
	if !isTable(c) {
		return printOutput(c, st)
	}
	return printOutput(c, sessionView(st))
}

type sessionView domain.SessionState

func (v sessionView) Table(bool) *output.Table {
	t := output.NewFieldTable()
	t.Field("status", v.Status)

	keys := make([]string, 0, len(v.Record))
	for k := range v.Record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.AddRow(k, strings.TrimSpace(fmt.Sprint(v.Record[k])))
	}
	return t
}
