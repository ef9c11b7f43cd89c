package main

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/jito-foundation/steward/steward"
)

// snapshot is the on-disk representation of a StewardState plus
// Parameters, playing the role the live on-chain account would in
// production: the CLI reads and writes it the same way the keeper reads
// and writes the account, just over a local file instead of RPC. This
// keeps every CLI command exercising the real steward package operations
// without requiring a live cluster connection, which is out of scope for
// this operator surface (see Non-goals).
type snapshot struct {
	Parameters *steward.Parameters `yaml:"parameters"`

	StateTag          steward.StateTag `yaml:"state_tag"`
	NumPoolValidators int              `yaml:"num_pool_validators"`
	CurrentEpoch      uint64           `yaml:"current_epoch"`
	NextCycleEpoch    uint64           `yaml:"next_cycle_epoch"`

	Scores      []uint64             `yaml:"scores"`
	RawScores   []uint64             `yaml:"raw_scores"`
	Delegations []steward.Delegation `yaml:"delegations"`
}

func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Parameters == nil {
		snap.Parameters = steward.DefaultParameters()
	}
	return &snap, nil
}

func saveSnapshot(path string, snap *snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// toState expands the compact snapshot fields back into a full
// StewardState, the way a keeper expands a deserialized on-chain account.
func (s *snapshot) toState() *steward.StewardState {
	state := steward.NewStewardState()
	state.StateTag = s.StateTag
	state.NumPoolValidators = s.NumPoolValidators
	state.CurrentEpoch = s.CurrentEpoch
	state.NextCycleEpoch = s.NextCycleEpoch
	copy(state.Scores, s.Scores)
	copy(state.RawScores, s.RawScores)
	copy(state.Delegations, s.Delegations)
	return state
}

func fromState(state *steward.StewardState, params *steward.Parameters) *snapshot {
	n := state.NumPoolValidators
	snap := &snapshot{
		Parameters:        params,
		StateTag:          state.StateTag,
		NumPoolValidators: n,
		CurrentEpoch:      state.CurrentEpoch,
		NextCycleEpoch:    state.NextCycleEpoch,
		Scores:            append([]uint64(nil), state.Scores[:n]...),
		RawScores:         append([]uint64(nil), state.RawScores[:n]...),
		Delegations:       append([]steward.Delegation(nil), state.Delegations[:n]...),
	}
	return snap
}
