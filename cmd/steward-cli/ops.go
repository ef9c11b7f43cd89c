package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jito-foundation/steward/steward"
)

func updateParametersCommand() *cli.Command {
	var mevBPS uint
	var commissionThreshold uint
	var numDelegationValidators uint

	return &cli.Command{
		Name:  "update-parameters",
		Usage: "patch one or more Parameters fields",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "mev-commission-bps-threshold", Destination: &mevBPS},
			&cli.UintFlag{Name: "commission-threshold", Destination: &commissionThreshold},
			&cli.UintFlag{Name: "num-delegation-validators", Destination: &numDelegationValidators},
		},
		Action: func(c *cli.Context) error {
			path := configPath(c)
			snap, err := loadSnapshot(path)
			if err != nil {
				return err
			}

			var args steward.UpdateParametersArgs
			if c.IsSet("mev-commission-bps-threshold") {
				v := uint32(mevBPS)
				args.MEVCommissionBPSThreshold = &v
			}
			if c.IsSet("commission-threshold") {
				v := uint8(commissionThreshold)
				args.CommissionThreshold = &v
			}
			if c.IsSet("num-delegation-validators") {
				v := uint32(numDelegationValidators)
				args.NumDelegationValidators = &v
			}

			if err := snap.Parameters.Apply(args); err != nil {
				return err
			}
			return saveSnapshot(path, snap)
		},
	}
}

func pauseCommand() *cli.Command {
	return &cli.Command{
		Name:  "pause",
		Usage: "set Parameters.Paused to true, halting all Transition calls",
		Action: func(c *cli.Context) error {
			path := configPath(c)
			snap, err := loadSnapshot(path)
			if err != nil {
				return err
			}
			snap.Parameters.Paused = true
			return saveSnapshot(path, snap)
		},
	}
}

func resumeCommand() *cli.Command {
	return &cli.Command{
		Name:  "resume",
		Usage: "set Parameters.Paused to false",
		Action: func(c *cli.Context) error {
			path := configPath(c)
			snap, err := loadSnapshot(path)
			if err != nil {
				return err
			}
			snap.Parameters.Paused = false
			return saveSnapshot(path, snap)
		},
	}
}

func addValidatorCommand() *cli.Command {
	return &cli.Command{
		Name:  "add-validator",
		Usage: "append a placeholder validator slot to the snapshot (the keeper syncs real vote accounts automatically)",
		Action: func(c *cli.Context) error {
			path := configPath(c)
			snap, err := loadSnapshot(path)
			if err != nil {
				return err
			}
			state := snap.toState()
			if _, err := steward.AppendValidator(state); err != nil {
				return err
			}
			newSnap := fromState(state, snap.Parameters)
			return saveSnapshot(path, newSnap)
		},
	}
}

func removeValidatorCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove-validator",
		Usage:     "immediately remove the validator at the given index from the snapshot",
		ArgsUsage: "<index>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("remove-validator requires exactly one index argument")
			}
			var index int
			if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &index); err != nil {
				return fmt.Errorf("invalid index: %w", err)
			}

			path := configPath(c)
			snap, err := loadSnapshot(path)
			if err != nil {
				return err
			}
			state := snap.toState()
			if err := steward.RemoveValidator(state, index); err != nil {
				return err
			}
			newSnap := fromState(state, snap.Parameters)
			return saveSnapshot(path, newSnap)
		},
	}
}
