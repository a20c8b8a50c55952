package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/fitplan-go/internal/cli/output"
	"github.com/yndnr/fitplan-go/internal/core/domain"
)

// TabsCommand returns the tabs command.
func TabsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tabs",
		Usage: "List the tab bar screens in display order",
		Action: func(c *cli.Context) error {
			return printOutput(c, tabList(domain.DefaultTabs()))
		},
	}
}

// tabList prints one row per tab. JSON and YAML see the plain slice.
type tabList []domain.Tab

func (l tabList) Table(wide bool) *output.Table {
	t := output.NewTable("NAME", "ICON", "TITLE")
	if wide {
		t.Headers = append(t.Headers, "POSITION")
	}
	for i, tab := range l {
		row := []string{tab.Name, tab.Icon, tab.Title}
		if wide {
			row = append(row, output.Cell(i+1))
		}
		t.AddRow(row...)
	}
	return t
}
