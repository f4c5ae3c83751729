package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hive/internal/output"
)

// version is set via ldflags at build time by GoReleaser.
// e.g. -ldflags "-X main.version=1.2.3"
var version = "dev"

// newApp creates the CLI application with all flags and commands.
func newApp() *cli.Command {
	return &cli.Command{
		Name:        "hive",
		Usage:       "Honey and nectar hive simulation",
		Version:     version,
		UsageText:   "hive [global options] command [command options] [arguments...]",
		Description: "Hive runs a queen and her worker bees shift by shift over a shared honey vault",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file, relative to --project",
				Value:   "hive.json",
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   "Project directory",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose logging",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only print the final report (mutually exclusive with --json and --plain)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output NDJSON events (mutually exclusive with --quiet and --plain)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Plain output (no TUI)",
			},
			&cli.BoolFlag{
				Name:  "no-record",
				Usage: "Do not journal the run to .hive/hive.db",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Validate mutual exclusivity of output format flags
			flagCount := 0
			for _, name := range []string{"quiet", "json", "plain"} {
				if cmd.Bool(name) {
					flagCount++
				}
			}
			if flagCount > 1 {
				return ctx, fmt.Errorf("flags --quiet, --json, and --plain are mutually exclusive")
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the hive for a number of shifts",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "shifts", Aliases: []string{"n"}, Usage: "Number of shifts (default from config)"},
					&cli.StringSliceFlag{Name: "assign", Usage: "Assign a bee before the first shift (repeatable): nectar, honey, egg-care"},
					&cli.StringFlag{Name: "scenario", Usage: "Load starting stock, shifts and assignments from a YAML file"},
					&cli.StringFlag{Name: "label", Usage: "Session label"},
				},
				Action: cmdRun,
			},
			{
				Name:  "play",
				Usage: "Drive the hive interactively",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "label", Usage: "Session label"},
				},
				Action: cmdPlay,
			},
			{
				Name:   "status",
				Usage:  "Show the latest recorded session",
				Action: cmdStatus,
			},
			{
				Name:  "sessions",
				Usage: "List recorded sessions",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum sessions to show"},
				},
				Action: cmdSessions,
			},
			{
				Name:      "shifts",
				Usage:     "Show the shift journal of a session",
				ArgsUsage: "[session-id]",
				Action:    cmdShifts,
			},
			{
				Name:   "init",
				Usage:  "Initialize a .hive directory and config file",
				Action: cmdInit,
			},
			{
				Name:   "config",
				Usage:  "Show current configuration",
				Action: cmdConfig,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// Default action: interactive on a terminal, headless otherwise
			if selectMode(cmd) == output.ModeTUI {
				return cmdPlay(ctx, cmd)
			}
			return cmdRun(ctx, cmd)
		},
	}
}
