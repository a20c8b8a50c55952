// Package command provides CLI command definitions for fitplan.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, app wiring
//   - session.go: Session subcommand group
//   - route.go: Last route and route tracking
//   - plan.go: Workout plan generation
//   - tabs.go: Tab bar configuration
//   - config.go: Configuration subcommand group
//   - system.go: version and status
//
// Commands follow a consistent pattern of opening the app from the
// loaded configuration, calling a service, and formatting output.
package command
