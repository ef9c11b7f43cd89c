package steward

import "context"

// epoch.go implements the housekeeping that runs independent of cycle
// phase: syncing the live validator count against the pool's
// ValidatorList, sweeping immediate and deactivated removals, and
// auto-adding newly eligible validators. The keeper runs the sync and the
// sweeps on every tick and the auto-add only when the epoch has changed. This corresponds to the keeper's epoch-maintenance
// step in spec.md §4.7, kept here (rather than in keeper/) since it
// mutates StewardState directly and the keeper only decides when to call
// it.

// SyncValidatorList reconciles state.NumPoolValidators with
// len(pool.ValidatorList()), appending freshly-visible validators. It does
// not remove anything; removal only happens through RemoveValidator once a
// validator is marked and fully deactivated.
func SyncValidatorList(state *StewardState, pool StakePoolView) error {
	n := pool.NumValidators()
	for state.NumPoolValidators < n {
		if _, err := AppendValidator(state); err != nil {
			return wrap(err, "SyncValidatorList")
		}
	}
	if state.NumPoolValidators > n {
		return wrap(ErrListStateMismatch, "SyncValidatorList")
	}
	return nil
}

// SweepImmediateRemovals removes every validator flagged in
// ValidatorsForImmediateRemoval, highest index first so earlier removals
// don't invalidate later indices mid-sweep.
func SweepImmediateRemovals(state *StewardState) error {
	for i := state.NumPoolValidators - 1; i >= 0; i-- {
		if state.ValidatorsForImmediateRemoval.Get(uint(i)) {
			if err := RemoveValidator(state, i); err != nil {
				return wrap(err, "SweepImmediateRemovals")
			}
		}
	}
	return nil
}

// SweepDeactivatedRemovals removes every validator flagged in
// ValidatorsToRemove whose transient stake has fully cleared (no stake
// left activating or deactivating, and no active stake remaining).
func SweepDeactivatedRemovals(state *StewardState, pool StakePoolView) error {
	list := pool.ValidatorList()
	for i := state.NumPoolValidators - 1; i >= 0; i-- {
		if !state.ValidatorsToRemove.Get(uint(i)) {
			continue
		}
		if i >= len(list) {
			return wrap(ErrListStateMismatch, "SweepDeactivatedRemovals")
		}
		entry := list[i]
		if entry.ActiveStakeLamports == 0 && entry.TransientStakeLamports == 0 {
			if err := RemoveValidator(state, i); err != nil {
				return wrap(err, "SweepDeactivatedRemovals")
			}
		}
	}
	return nil
}

// EligibleForAutoAdd reports whether a vote account not yet tracked by the
// pool meets the liveness thresholds (minimum stake and minimum voting
// epochs) required for the keeper to submit AddValidatorToPool for it.
func EligibleForAutoAdd(params *Parameters, vh ValidatorHistory, currentEpoch uint64) bool {
	stake, ok := vh.ActivatedStake(currentEpoch)
	if !ok || stake < params.MinimumStakeLamports {
		return false
	}
	votingEpochs := saturatingSub(currentEpoch, vh.FirstEpoch())
	return votingEpochs >= params.MinimumVotingEpochs
}

// AutoAddEligibleValidators submits AddValidatorToPool for every candidate
// vote account that passes EligibleForAutoAdd and is not already present
// in pool.ValidatorList().
func AutoAddEligibleValidators(ctx context.Context, params *Parameters, pool StakePoolView, mutator StakePoolMutator, candidates map[PubKey]ValidatorHistory, currentEpoch uint64) (int, error) {
	existing := make(map[PubKey]struct{}, pool.NumValidators())
	for _, entry := range pool.ValidatorList() {
		existing[entry.VoteAccount] = struct{}{}
	}

	added := 0
	for voteAccount, vh := range candidates {
		if _, present := existing[voteAccount]; present {
			continue
		}
		if !EligibleForAutoAdd(params, vh, currentEpoch) {
			continue
		}
		if err := mutator.AddValidatorToPool(ctx, voteAccount); err != nil {
			return added, wrap(err, "AutoAddEligibleValidators")
		}
		added++
	}
	return added, nil
}
