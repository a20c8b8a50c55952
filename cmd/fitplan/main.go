package main

import (
	"context"
	"os"

	"github.com/yndnr/fitplan-go/internal/cli/command"
	"github.com/yndnr/fitplan-go/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	err := command.App().RunContext(ctx, os.Args)
	stop()
	os.Exit(command.ExitCode(err))
}
