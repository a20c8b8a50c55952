package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/cli/output"
)

// PlanCommand returns the plan subcommand group.
func PlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Generate workout plans",
		Subcommands: []*cli.Command{
			{
				Name:      "generate",
				Aliases:   []string{"gen"},
				Usage:     "Generate a weekly plan for a goal",
				ArgsUsage: "GOAL...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-spinner",
						Usage: "Do not animate while waiting",
					},
				},
				Action: planGenerate,
			},
		},
	}
}

// PlanOutput is the machine-readable result of plan generate.
type PlanOutput struct {
	RequestID string `json:"request_id"`
	Outcome   string `json:"outcome"`
	Goal      string `json:"goal"`
	Output    string `json:"output"`
	ErrorCode string `json:"error_code,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func planGenerate(c *cli.Context) (err error) {
	goal := strings.Join(c.Args().Slice(), " ")

	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	var spinner *output.Spinner
	if isTable(c) && !c.Bool("no-spinner") {
		spinner = output.NewSpinner(c.App.ErrWriter, "Generating plan")
		spinner.Start()
	}

	res := a.Plans.Generate(c.Context, goal)

	if spinner != nil {
		spinner.Stop()
	}

	if !isTable(c) {
		if err := printOutput(c, PlanOutput{
			RequestID: res.RequestID,
			Outcome:   string(res.Outcome),
			Goal:      res.Goal,
			Output:    a.Plans.Output(),
			ErrorCode: res.ErrorCode(),
			ElapsedMS: res.Elapsed.Milliseconds(),
		}); err != nil {
			return err
		}
	} else if res.OK() {
		fmt.Fprintln(c.App.Writer, strings.TrimSpace(a.Plans.Output()))
	}

	if res.OK() {
		return nil
	}
	// Failures are logged by the service. They reach the user only when
	// the configuration asks for it; the exit status always reports them.
	if a.Plans.SurfaceErrors() {
		return cli.Exit(describe(res.Err), 1)
	}
	return cli.Exit("", 1)
}
