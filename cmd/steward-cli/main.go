// Command steward-cli is the operator surface for the steward state
// machine: inspecting StewardState and Parameters, adjusting tunables, and
// issuing the administrative operations that aren't part of the
// keeper's automatic cascade (pause, manual validator add/remove,
// parameter updates).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	slog "github.com/jito-foundation/steward/log"
)

func main() {
	log := slog.Default().Module("cli")

	app := &cli.App{
		Name:  "steward-cli",
		Usage: "operate a steward-managed stake pool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the operator YAML config",
				EnvVars: []string{"STEWARD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			viewStateCommand(),
			viewConfigCommand(),
			updateParametersCommand(),
			pauseCommand(),
			resumeCommand(),
			addValidatorCommand(),
			removeValidatorCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
