package command

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/cli/output"
	"github.com/yndnr/fitplan-go/internal/navigation"
)

// RouteCommand returns the route subcommand group.
func RouteCommand() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "Last visited route and navigation tracking",
		Subcommands: []*cli.Command{
			{
				Name:   "last",
				Usage:  "Show the last recorded route",
				Action: routeLast,
			},
			{
				Name:  "track",
				Usage: "Record navigation events read from stdin until EOF",
				Description: "Each line is a route name, or a JSON navigation state\n" +
					"such as {\"index\":0,\"routes\":[{\"name\":\"home\"}]}.",
				Action: routeTrack,
			},
		},
	}
}

func routeLast(c *cli.Context) (err error) {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	reader := a.Routes.OpenLast(c.Context)
	defer reader.Release()

	last, err := reader.Wait(c.Context)
	if err != nil {
		return err
	}
	if last.Err != nil {
		return cli.Exit(describe(last.Err), 1)
	}
	if isTable(c) && !last.Found {
		fmt.Fprintln(c.App.Writer, "No route recorded.")
		return nil
	}
	if isTable(c) {
		fmt.Fprintln(c.App.Writer, last.Name)
		return nil
	}
	return printOutput(c, last)
}

// TrackSummary reports what route track did.
type TrackSummary struct {
	Lines   int    `json:"lines"`
	Writes  uint64 `json:"writes"`
	Skipped uint64 `json:"skipped"`
	Invalid int    `json:"invalid"`
}

// Table lays the summary out as FIELD/VALUE rows.
func (s TrackSummary) Table(bool) *output.Table {
	t := output.NewFieldTable()
	t.Field("lines", s.Lines)
	t.Field("writes", s.Writes)
	t.Field("skipped", s.Skipped)
	t.Field("invalid", s.Invalid)
	return t
}

func routeTrack(c *cli.Context) (err error) {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	tracker := a.Routes.Tracker()
	var sum TrackSummary

	err = tracker.Scope(func() error {
		scanner := bufio.NewScanner(c.App.Reader)
		for scanner.Scan() {
			if err := c.Context.Err(); err != nil {
				return err
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			sum.Lines++

			ev, perr := parseNavigationLine(line)
			if perr != nil {
				sum.Invalid++
				getLogger(c).Warn("ignoring navigation line", "line", line, "error", perr)
				continue
			}
			a.Broker.Publish(c.Context, ev)
		}
		return scanner.Err()
	})
	if err != nil {
		return err
	}

	sum.Writes = tracker.Writes()
	sum.Skipped = tracker.Skipped()
	return printOutput(c, sum)
}

// parseNavigationLine turns one input line into an event.
func parseNavigationLine(line string) (navigation.Event, error) {
	if !strings.HasPrefix(line, "{") {
		return navigation.NewEvent(line, "stdin"), nil
	}

	var st navigation.State
	if err := json.Unmarshal([]byte(line), &st); err != nil {
		return navigation.Event{}, err
	}
	if err := st.Validate(); err != nil {
		return navigation.Event{}, err
	}
	return navigation.Event{State: &st, Source: "stdin", At: time.Now()}, nil
}
