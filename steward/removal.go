package steward

// removal.go implements validator removal and the two ways a validator can
// be queued for it, grounded on remove_validator / mark_validator_for_removal
// / mark_validator_for_immediate_removal in the reference implementation.

// MarkValidatorForRemoval queues index for removal once its stake has
// fully deactivated (the ordinary, end-of-cycle path: a validator that
// scored zero or was dropped from the vote account set drains to zero
// over one or more rebalance cycles before it can actually be removed).
func MarkValidatorForRemoval(state *StewardState, index int) error {
	if err := state.checkIndex(index); err != nil {
		return err
	}
	return state.ValidatorsToRemove.Set(uint(index), true)
}

// MarkValidatorForImmediateRemoval queues index for removal regardless of
// its current stake or cycle phase — used when the validator's vote
// account has disappeared entirely and steward can no longer score or
// rebalance it at all.
func MarkValidatorForImmediateRemoval(state *StewardState, index int) error {
	if err := state.checkIndex(index); err != nil {
		return err
	}
	return state.ValidatorsForImmediateRemoval.Set(uint(index), true)
}

// IncrementValidatorsAdded records that a new validator was appended to
// the pool this cycle, for operator visibility; it does not itself touch
// any per-validator array (AppendValidator does that).
func IncrementValidatorsAdded(state *StewardState) {
	state.ValidatorsAdded++
}

// AppendValidator grows the live prefix by one, initializing the new
// index's per-validator state to its zero value. It fails if the state is
// already at MaxValidators capacity.
func AppendValidator(state *StewardState) (int, error) {
	if state.NumPoolValidators >= MaxValidators {
		return 0, wrap(ErrInvalidState, "AppendValidator: at capacity")
	}
	index := state.NumPoolValidators
	state.Scores[index] = 0
	state.RawScores[index] = 0
	state.Delegations[index] = ZeroDelegation
	state.ValidatorLamportBalances[index] = LamportBalanceUnset
	state.NumPoolValidators++
	IncrementValidatorsAdded(state)
	return index, nil
}

// RemoveValidator deletes index from every per-validator array by
// shifting all higher indices left by one, then fixes up the sorted-index
// arrays in two phases: first remove any entry equal to index (shifting
// the remainder of that array left by one), then decrement every stored
// index greater than the removed index so stale references still point
// at the correct (now-shifted) validator.
func RemoveValidator(state *StewardState, index int) error {
	if err := state.checkIndex(index); err != nil {
		return err
	}
	n := state.NumPoolValidators

	shiftU64 := func(arr []uint64) {
		copy(arr[index:n-1], arr[index+1:n])
	}
	shiftU64(state.Scores)
	shiftU64(state.RawScores)
	shiftU64(state.ValidatorLamportBalances)
	copy(state.Delegations[index:n-1], state.Delegations[index+1:n])

	fixupSortedArray(state.SortedScoreIndices, index, n)
	fixupSortedArray(state.SortedRawScoreIndices, index, n)
	fixupSortedArray(state.YieldScoreIndices, index, n)

	shiftBit(state.ProgressFlags, index, n)
	shiftBit(state.InstantUnstakeFlags, index, n)
	shiftBit(state.ValidatorsToRemove, index, n)
	shiftBit(state.ValidatorsForImmediateRemoval, index, n)

	state.NumPoolValidators--
	state.Scores[state.NumPoolValidators] = 0
	state.RawScores[state.NumPoolValidators] = 0
	state.Delegations[state.NumPoolValidators] = ZeroDelegation
	state.ValidatorLamportBalances[state.NumPoolValidators] = LamportBalanceUnset
	return nil
}

// fixupSortedArray removes the entry equal to removedIndex (if present)
// from indices[:n], compacting left, then decrements every remaining
// entry greater than removedIndex so it still references the correct
// validator after the per-validator arrays shift.
func fixupSortedArray(indices []uint16, removedIndex, n int) {
	target := uint16(removedIndex)
	found := -1
	for i := 0; i < n; i++ {
		if indices[i] == target {
			found = i
			break
		}
	}
	if found >= 0 {
		copy(indices[found:n-1], indices[found+1:n])
		indices[n-1] = SortedIndexDefault
	}
	for i := 0; i < n-1; i++ {
		if indices[i] != SortedIndexDefault && indices[i] > target {
			indices[i]--
		}
	}
}

// shiftBit shifts a BitMask's bits left by one starting at removedIndex,
// matching the per-validator array shift performed on the numeric slices.
func shiftBit(mask *BitMask, removedIndex, n int) {
	for i := removedIndex; i < n-1; i++ {
		mask.Set(uint(i), mask.Get(uint(i+1)))
	}
	mask.Set(uint(n-1), false)
}
