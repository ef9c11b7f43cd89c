package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
)

func configPath(c *cli.Context) string {
	if p := c.String("config"); p != "" {
		return p
	}
	return "steward-state.yaml"
}

func viewStateCommand() *cli.Command {
	return &cli.Command{
		Name:  "view-state",
		Usage: "print the current StewardState",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "render as JSON instead of a human-readable table"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(configPath(c))
			if err != nil {
				return err
			}
			if c.Bool("json") {
				enc, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(enc))
				return nil
			}

			fmt.Printf("state:              %s\n", snap.StateTag)
			fmt.Printf("num_validators:     %d\n", snap.NumPoolValidators)
			fmt.Printf("current_epoch:      %d\n", snap.CurrentEpoch)
			fmt.Printf("next_cycle_epoch:   %d\n", snap.NextCycleEpoch)
			for i := 0; i < snap.NumPoolValidators && i < len(snap.Scores); i++ {
				fmt.Printf("  [%d] score=%d raw_score=%d delegation=%d/%d\n",
					i, snap.Scores[i], snap.RawScores[i],
					snap.Delegations[i].Numerator, snap.Delegations[i].Denominator)
			}
			return nil
		},
	}
}

func viewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "view-config",
		Usage: "print the current Parameters",
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(configPath(c))
			if err != nil {
				return err
			}
			enc, err := json.MarshalIndent(snap.Parameters, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}
