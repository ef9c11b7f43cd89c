package steward

// transition.go implements the cycle-level state machine: the single
// entry point Transition, the five per-state transition helpers, and
// resetStateForNewCycle. The per-validator helpers (ComputeScores,
// ComputeInstantUnstake, Rebalance) operate on one validator index per
// call (the on-chain reference implementation's one-instruction-per-index
// budget) and are idempotent: ProgressFlags records completed indices so a
// retried call is a no-op. ComputeDelegations and Idle are single
// cycle-wide steps.

// Providers bundles every external, per-cycle read dependency the state
// machine needs. It is supplied fresh to each Transition call; steward
// never caches it across calls.
type Providers struct {
	Pool            StakePoolView
	Histories       []ValidatorHistory // indexed like StewardState's per-validator arrays
	ClusterHistory  ClusterHistory
	StakeHistory    StakeHistory
	CurrentSlot     uint64
	EpochStartSlot  uint64
	EpochEndSlot    uint64
}

// EpochProgress returns the fraction, in [0,1], of the current epoch's
// slot range that has elapsed.
func (p Providers) EpochProgress() float64 {
	total := p.EpochEndSlot - p.EpochStartSlot
	if total == 0 {
		return 1
	}
	elapsed := p.CurrentSlot - p.EpochStartSlot
	return float64(elapsed) / float64(total)
}

// Transition advances the state machine by exactly one unit of work for
// validatorIndex (ignored by states that operate cycle-wide rather than
// per-validator, such as Idle). It first checks for cycle restart
// regardless of the current state tag, matching the reference
// implementation's "any state can be preempted by a new cycle" rule.
func Transition(state *StewardState, params *Parameters, prov Providers, currentEpoch uint64, validatorIndex int) error {
	if params.Paused {
		return wrap(ErrStateMachinePaused, "Transition")
	}

	state.CurrentEpoch = currentEpoch
	if currentEpoch >= state.NextCycleEpoch {
		resetStateForNewCycle(state, params, currentEpoch)
	}

	switch state.StateTag {
	case StateComputeScores:
		return transitionComputeScores(state, params, prov, validatorIndex)
	case StateComputeDelegations:
		return transitionComputeDelegations(state, params)
	case StateIdle:
		return transitionIdle(state, params, prov)
	case StateComputeInstantUnstake:
		return transitionComputeInstantUnstake(state, params, prov, validatorIndex)
	case StateRebalance:
		return transitionRebalance(state, params, prov, validatorIndex)
	default:
		return wrap(ErrInvalidState, "Transition")
	}
}

// resetStateForNewCycle clears every per-cycle accumulator and progress
// flag and sets NextCycleEpoch for the new cycle, then drops the state
// machine back to ComputeScores. Per-validator long-lived data (scores
// from the prior cycle, lamport balances, delegations) is intentionally
// left in place: the fresh ComputeScores pass overwrites scores
// incrementally per validator exactly as the prior cycle did, and
// delegations/balances remain valid until ComputeDelegations and
// Rebalance recompute them.
func resetStateForNewCycle(state *StewardState, params *Parameters, currentEpoch uint64) {
	state.StateTag = StateComputeScores
	state.NextCycleEpoch = currentEpoch + params.NumEpochsBetweenScoring
	state.NumEpochsBetweenScoring = params.NumEpochsBetweenScoring
	state.ScoringUnstakeTotal = 0
	state.InstantUnstakeTotal = 0
	state.StakeDepositUnstakeTotal = 0
	state.ValidatorsAdded = 0
	state.ProgressFlags.Reset()
	state.InstantUnstakeFlags.Reset()
	state.resetSortedIndices()
}

// transitionComputeScores scores a single validator and advances
// ProgressFlags for it. Once every live validator has been scored the
// state advances to ComputeDelegations.
func transitionComputeScores(state *StewardState, params *Parameters, prov Providers, validatorIndex int) error {
	if err := state.checkIndex(validatorIndex); err != nil {
		return err
	}
	if state.ProgressFlags.Get(uint(validatorIndex)) {
		return nil
	}

	vh := prov.Histories[validatorIndex]
	components, err := computeValidatorScore(params, vh, prov.ClusterHistory, state.CurrentEpoch)
	if err != nil {
		return wrap(err, "transitionComputeScores")
	}

	state.RawScores[validatorIndex] = components.RawScore
	state.Scores[validatorIndex] = components.Score
	insertSortedIndex(state.SortedRawScoreIndices, state.RawScores, uint16(validatorIndex), state.NumPoolValidators)
	insertSortedIndex(state.SortedScoreIndices, state.Scores, uint16(validatorIndex), state.NumPoolValidators)

	if err := state.ProgressFlags.Set(uint(validatorIndex), true); err != nil {
		return wrap(err, "transitionComputeScores")
	}

	if state.ProgressFlags.IsComplete(uint64(state.NumPoolValidators)) {
		state.StateTag = StateComputeDelegations
		state.ProgressFlags.Reset()
	}
	return nil
}

// transitionComputeDelegations is a single cycle-wide step (the reference
// implementation computes every delegation in one instruction once
// scoring is complete, since the input is just the sorted index list).
// It unconditionally advances to Idle.
func transitionComputeDelegations(state *StewardState, params *Parameters) error {
	delegations, err := computeDelegations(state, params)
	if err != nil {
		return wrap(err, "transitionComputeDelegations")
	}
	copy(state.Delegations, delegations)
	state.StateTag = StateIdle
	return nil
}

// transitionIdle waits for the instant-unstake window to open. Once
// EpochProgress reaches InstantUnstakeEpochProgress, it advances to
// ComputeInstantUnstake.
func transitionIdle(state *StewardState, params *Parameters, prov Providers) error {
	if prov.EpochProgress() < params.InstantUnstakeEpochProgress {
		return nil
	}
	state.StateTag = StateComputeInstantUnstake
	state.ProgressFlags.Reset()
	return nil
}

// transitionComputeInstantUnstake evaluates one validator's instant-unstake
// eligibility criteria for this epoch. Once every live validator has been
// evaluated, it advances to Rebalance.
func transitionComputeInstantUnstake(state *StewardState, params *Parameters, prov Providers, validatorIndex int) error {
	if err := state.checkIndex(validatorIndex); err != nil {
		return err
	}
	if state.ProgressFlags.Get(uint(validatorIndex)) {
		return nil
	}
	if prov.EpochProgress() < params.InstantUnstakeInputsEpochProgress {
		return wrap(ErrInstantUnstakeNotReady, "transitionComputeInstantUnstake")
	}

	shouldUnstake, err := computeInstantUnstake(params, prov.Histories[validatorIndex], prov.ClusterHistory, state.CurrentEpoch)
	if err != nil {
		return wrap(err, "transitionComputeInstantUnstake")
	}
	if shouldUnstake {
		if err := state.InstantUnstakeFlags.Set(uint(validatorIndex), true); err != nil {
			return wrap(err, "transitionComputeInstantUnstake")
		}
	}

	if err := state.ProgressFlags.Set(uint(validatorIndex), true); err != nil {
		return wrap(err, "transitionComputeInstantUnstake")
	}

	if state.ProgressFlags.IsComplete(uint64(state.NumPoolValidators)) {
		state.StateTag = StateRebalance
		state.ProgressFlags.Reset()
	}
	return nil
}

// transitionRebalance runs the rebalance calculator for a single validator
// and emits the increase/decrease/none decision; the keeper is
// responsible for actually submitting the resulting instruction. Once
// every live validator has rebalanced this cycle, the state remains
// Rebalance (it is re-entered every cycle via resetStateForNewCycle, never
// self-advanced) until the next cycle boundary.
func transitionRebalance(state *StewardState, params *Parameters, prov Providers, validatorIndex int) error {
	if err := state.checkIndex(validatorIndex); err != nil {
		return err
	}
	if state.ProgressFlags.Get(uint(validatorIndex)) {
		return nil
	}

	decision, err := rebalance(state, params, prov, validatorIndex)
	if err != nil {
		return wrap(err, "transitionRebalance")
	}
	state.RebalanceDecisions[validatorIndex] = decision

	return state.ProgressFlags.Set(uint(validatorIndex), true)
}
