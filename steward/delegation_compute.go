package steward

// delegation_compute.go implements ComputeDelegations: selecting the
// top-k scored validators and assigning each an equal share of the pool,
// grounded on select_validators_to_delegate / compute_delegations in the
// reference implementation.

// computeDelegations walks state.SortedScoreIndices (already maintained in
// descending-score order by ComputeScores) and assigns an equal
// Delegation share to the top NumDelegationValidators eligible entries.
// Validators whose Score is zero (failed at least one eligibility filter)
// are never selected even if capacity remains, since a zero score can
// still occupy a slot in SortedScoreIndices ahead of SortedIndexDefault
// sentinels.
func computeDelegations(state *StewardState, params *Parameters) ([]Delegation, error) {
	selected := selectValidatorsToDelegate(state, int(params.NumDelegationValidators))

	out := make([]Delegation, MaxValidators)
	for i := range out {
		out[i] = ZeroDelegation
	}
	if len(selected) == 0 {
		return out, nil
	}

	denominator := uint32(len(selected))
	for _, index := range selected {
		out[index] = Delegation{Numerator: 1, Denominator: denominator}
	}
	return out, nil
}

// selectValidatorsToDelegate returns up to k validator indices, in
// descending score order, restricted to entries with a nonzero Score.
func selectValidatorsToDelegate(state *StewardState, k int) []int {
	selected := make([]int, 0, k)
	for i := 0; i < state.NumPoolValidators && len(selected) < k; i++ {
		idx := state.SortedScoreIndices[i]
		if idx == SortedIndexDefault {
			break
		}
		if state.Scores[idx] == 0 {
			continue
		}
		selected = append(selected, int(idx))
	}
	return selected
}

// computeInstantUnstake evaluates the subset of eligibility criteria that
// can change mid-cycle and therefore warrant pulling a validator's stake
// before the next full scoring cycle: it recomputes the MEV commission,
// commission, superminority and delinquency filters using only the
// current epoch's data (not the full scoring window) and flags the
// validator if any of them newly fail. Blacklist and jito-running status
// do not change intra-cycle and are not re-evaluated here.
func computeInstantUnstake(params *Parameters, vh ValidatorHistory, ch ClusterHistory, currentEpoch uint64) (bool, error) {
	if vh.LastUpdatedEpoch() < currentEpoch {
		return false, wrap(ErrVoteHistoryNotRecentEnough, "computeInstantUnstake")
	}
	if ch.LastUpdatedEpoch() < currentEpoch {
		return false, wrap(ErrClusterHistoryNotRecentEnough, "computeInstantUnstake")
	}

	if bps, ok := vh.MEVCommissionBPS(currentEpoch); ok && uint64(bps) > uint64(params.MEVCommissionBPSThreshold) {
		return true, nil
	}
	if pct, ok := vh.Commission(currentEpoch); ok && pct > params.CommissionThreshold {
		return true, nil
	}
	if flagged, ok := vh.IsSuperminority(currentEpoch); ok && flagged {
		return true, nil
	}

	for _, entry := range vh.EpochCredits(currentEpoch, currentEpoch) {
		if ratio, ok := entry.DelinquencyRatio(); ok && ratio < params.InstantUnstakeDelinquencyThresholdRatio {
			return true, nil
		}
	}
	return false, nil
}
