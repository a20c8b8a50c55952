package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/app/config"
	"github.com/yndnr/fitplan-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the merged configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg := config.Sanitize(getConfig(c))
	if isTable(c) {
		// Nested sections do not fit a table.
		return (&output.YAMLFormatter{}).Format(c.App.Writer, cfg)
	}
	return printOutput(c, cfg)
}

func configValidate(c *cli.Context) error {
	if err := config.Verify(getConfig(c)); err != nil {
		return cli.Exit(describe(err), 1)
	}
	fmt.Fprintln(c.App.Writer, "Configuration is valid.")
	return nil
}
