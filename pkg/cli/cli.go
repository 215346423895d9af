// Package cli provides the command-line interface for hypium-runner.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/hypium-runner/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "target",
		Aliases: []string{"t"},
		Usage:   "Device connect key (default: first connected device)",
		EnvVars: []string{"HYPIUM_TARGET"},
	},
	&cli.StringFlag{
		Name:    "hdc",
		Usage:   "Path to the hdc binary (default: found on PATH)",
		EnvVars: []string{"HYPIUM_HDC"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"HYPIUM_VERBOSE"},
	},
	&cli.StringFlag{
		Name:  "log",
		Usage: "Write logs to the given file",
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "hypium-runner",
		Usage:   "UI automation runner for HarmonyOS devices",
		Version: Version,
		Description: `Hypium Runner executes YAML workflow files against HarmonyOS
devices over hdc, resolving UI elements from RenderService tree dumps.

Examples:
  hypium-runner run flow.yaml
  hypium-runner run flows/ -e USER=test
  hypium-runner find --text Login
  hypium-runner dump --depth 3`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logger.SetLevel(logger.LevelDebug)
				logger.SetEcho(os.Stderr)
			}
			if path := c.String("log"); path != "" {
				if err := logger.Init(path); err != nil {
					return err
				}
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			runCommand,
			dumpCommand,
			findCommand,
			tapCommand,
			swipeCommand,
			keyCommand,
			screenshotCommand,
			stopCommand,
			infoCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
