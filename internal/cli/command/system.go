package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/fitplan-go/internal/cli/output"
	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/core/service"
	"github.com/yndnr/fitplan-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			if isTable(c) {
				fmt.Fprintln(c.App.Writer, buildinfo.String())
				return nil
			}
			return printOutput(c, buildinfo.Get())
		},
	}
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show session, last route and backend summary",
		Action: status,
	}
}

// StatusReport summarizes the local state.
type StatusReport struct {
	Version   string               `json:"version"`
	Storage   string               `json:"storage"`
	Encrypted bool                 `json:"encrypted"`
	Model     string               `json:"model"`
	Session   domain.SessionStatus `json:"session"`
	User      string               `json:"user,omitempty"`
	LastRoute string               `json:"last_route,omitempty"`
}

// Table lays the report out as FIELD/VALUE rows. The storage details
// are wide-only.
func (r StatusReport) Table(wide bool) *output.Table {
	t := output.NewFieldTable()
	t.Field("version", r.Version)
	if wide {
		t.Field("storage", r.Storage)
		t.Field("encrypted", r.Encrypted)
	}
	t.Field("model", r.Model)
	t.Field("session", r.Session)
	t.Field("user", r.User)
	t.Field("last_route", r.LastRoute)
	return t
}

func status(c *cli.Context) (err error) {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	report := StatusReport{
		Version:   buildinfo.Version,
		Storage:   a.Config.Storage.Engine,
		Encrypted: a.Config.Storage.EncryptionKey != "",
		Model:     a.Completion.Model(),
	}

	var (
		sess domain.SessionState
		last service.LastRoute
	)
	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() error {
		sess = a.Sessions.Load(ctx)
		return nil
	})
	g.Go(func() error {
		last = a.Routes.Last(ctx)
		return last.Err
	})
	if err := g.Wait(); err != nil {
		return cli.Exit(describe(err), 1)
	}

	report.Session = sess.Status
	report.User = sess.Record.String("id")
	report.LastRoute = last.Name
	return printOutput(c, report)
}
