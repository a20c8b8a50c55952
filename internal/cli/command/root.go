package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/app"
	"github.com/yndnr/fitplan-go/internal/app/config"
	"github.com/yndnr/fitplan-go/internal/cli/output"
	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/infra/buildinfo"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
)

// Metadata keys set by the Before hook.
const (
	metaConfig = "config"
	metaLogger = "logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "fitplan",
		Usage:   "FitPlan core: session, navigation and workout plans",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SessionCommand(),
			RouteCommand(),
			PlanCommand(),
			TabsCommand(),
			ConfigCommand(),
			StatusCommand(),
			VersionCommand(),
			ReplCommand(),
		},
		Before:         before,
		ExitErrHandler: printExitError,
	}
}

// printExitError prints err without exiting; main derives the exit code
// with ExitCode.
func printExitError(c *cli.Context, err error) {
	if err == nil {
		return
	}
	if msg := err.Error(); msg != "" {
		PrintError(c.App.ErrWriter, "%s", msg)
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
			EnvVars: []string{"FITPLAN_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "storage",
			Usage: "Storage engine: badger, sqlite, redis, memory",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Storage directory for file-backed engines",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level for this invocation",
			Value: "warn",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config  string
	Output  output.Format
	Wide    bool
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Config:  c.String("config"),
		Output:  format,
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
	}, nil
}

// flagOverrides maps explicitly set flags onto config keys.
func flagOverrides(c *cli.Context) map[string]any {
	flags := map[string]any{
		"log.level":  c.String("log-level"),
		"log.format": "text",
	}
	if c.Bool("verbose") {
		flags["log.level"] = "debug"
	}
	if c.IsSet("storage") {
		flags["storage.engine"] = c.String("storage")
	}
	if c.IsSet("data-dir") {
		flags["storage.dir"] = c.String("data-dir")
	}
	return flags
}

func before(c *cli.Context) error {
	if _, err := ParseGlobalFlags(c); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg, err := config.Load(c.String("config"), flagOverrides(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("load config: %v", err), 2)
	}

	logCfg := cfg.Log
	logCfg.Output = c.App.ErrWriter
	log := logger.New(logCfg)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = log
	return nil
}

// getConfig retrieves the loaded configuration from context.
func getConfig(c *cli.Context) *config.AppConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.AppConfig); ok {
		return cfg
	}
	return config.Default()
}

// getLogger retrieves the logger from context.
func getLogger(c *cli.Context) *slog.Logger {
	if l, ok := c.App.Metadata[metaLogger].(*slog.Logger); ok {
		return l
	}
	return logger.Discard()
}

// openApp verifies the configuration and wires the components.
// The caller must Close the returned App.
func openApp(c *cli.Context) (*app.App, error) {
	cfg := getConfig(c)
	if err := config.Verify(cfg); err != nil {
		return nil, cli.Exit(describe(err), 2)
	}
	a, err := app.New(c.Context, cfg, getLogger(c))
	if err != nil {
		return nil, cli.Exit(describe(err), 1)
	}
	return a, nil
}

// describe renders err with the cause of a domain error, which
// DomainError.Error leaves out.
func describe(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Cause != nil {
		return err.Error() + ": " + de.Cause.Error()
	}
	return err.Error()
}

// closeApp closes a and reports a close failure unless err is already set.
func closeApp(a *app.App, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// printOutput writes data in the selected format to the app writer.
func printOutput(c *cli.Context, data any) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	return output.NewFormatter(flags.Output, flags.Wide).Format(c.App.Writer, data)
}

// isTable reports whether the table format is selected.
func isTable(c *cli.Context) bool {
	flags, err := ParseGlobalFlags(c)
	return err == nil && flags.Output == output.FormatTable
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}

// ExitCode returns the process exit code for an error returned by Run.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}
