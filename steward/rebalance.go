package steward

// rebalance.go implements the per-validator rebalance calculator: given a
// validator's target delegation share, its current on-chain stake, and
// steward's own internal lamport accounting, decide whether to increase,
// decrease, or leave alone that validator's stake this cycle. Grounded on
// rebalance() in the reference implementation; adapted to Go's explicit
// multi-value returns in place of a single enum-carrying result.

// RebalanceAction is the instruction category the keeper should submit for
// a validator following a rebalance decision.
type RebalanceAction uint8

const (
	RebalanceNone RebalanceAction = iota
	RebalanceIncrease
	RebalanceDecrease
)

// UnstakeCategory distinguishes the three decrease reasons, each tracked
// against its own per-cycle basis-point cap.
type UnstakeCategory uint8

const (
	UnstakeCategoryNone UnstakeCategory = iota
	UnstakeCategoryStakeDeposit
	UnstakeCategoryInstant
	UnstakeCategoryScoring
)

// UnstakeComponents breaks a decrease decision down by cap category. All
// three are computed and capped independently against their own per-cycle
// total, then summed into a single DecreaseValidatorStake instruction —
// the categories are steward's own bookkeeping, not separate on-chain
// calls.
type UnstakeComponents struct {
	StakeDeposit uint64
	Instant      uint64
	Scoring      uint64
}

// Total is the combined decrease amount across all three categories.
func (u UnstakeComponents) Total() uint64 {
	return u.StakeDeposit + u.Instant + u.Scoring
}

// RebalanceDecision is the outcome of one rebalance call for one
// validator. Lamports is the single instruction amount (for Increase, the
// reserve draw; for Decrease, Components.Total()).
type RebalanceDecision struct {
	Action     RebalanceAction
	Components UnstakeComponents
	Lamports   uint64
}

// capForCategory returns the remaining lamports available this cycle for
// category, after subtracting what has already been spent.
func capForCategory(state *StewardState, params *Parameters, effectivePool uint64, category UnstakeCategory) uint64 {
	var bps uint64
	var spent uint64
	switch category {
	case UnstakeCategoryStakeDeposit:
		bps, spent = uint64(params.StakeDepositUnstakeCapBPS), state.StakeDepositUnstakeTotal
	case UnstakeCategoryInstant:
		bps, spent = uint64(params.InstantUnstakeCapBPS), state.InstantUnstakeTotal
	case UnstakeCategoryScoring:
		bps, spent = uint64(params.ScoringUnstakeCapBPS), state.ScoringUnstakeTotal
	default:
		return 0
	}
	total, ok := checkedMul(effectivePool, bps)
	if !ok {
		return 0
	}
	cap := total / BasisPointsDenominator
	return saturatingSub(cap, spent)
}

func addSpent(state *StewardState, category UnstakeCategory, amount uint64) {
	switch category {
	case UnstakeCategoryStakeDeposit:
		state.StakeDepositUnstakeTotal += amount
	case UnstakeCategoryInstant:
		state.InstantUnstakeTotal += amount
	case UnstakeCategoryScoring:
		state.ScoringUnstakeTotal += amount
	}
}

// redistributeDenominator is applied when a validator's delegation is
// forcibly zeroed mid-cycle by instant unstake: every other nonzero
// delegation's denominator is decremented by one, shifting that
// delegate's share onto the remaining delegates without a full
// recomputation of the delegate set. index itself is zeroed.
func redistributeDenominator(state *StewardState, index int) {
	state.Delegations[index] = ZeroDelegation
	for i := 0; i < state.NumPoolValidators; i++ {
		if i == index {
			continue
		}
		if !state.Delegations[i].IsZero() {
			state.Delegations[i] = state.Delegations[i].decrementDenominator()
		}
	}
}

// rebalance runs the calculator for a single validator index and returns
// its decision, updating state's per-cycle totals and internal lamport
// accounting as a side effect. It never calls out to StakePoolMutator;
// the keeper submits the corresponding instruction. The decided lamport
// movement is already applied to ValidatorLamportBalances here.
func rebalance(state *StewardState, params *Parameters, prov Providers, index int) (RebalanceDecision, error) {
	list := prov.Pool.ValidatorList()
	if index >= len(list) {
		return RebalanceDecision{}, wrap(ErrListStateMismatch, "rebalance")
	}
	entry := list[index]

	reserve := prov.Pool.ReserveLamports()
	rentExempt := prov.Pool.RentExemptReserve()
	effectiveReserve := saturatingSub(reserve, rentExempt)
	effectivePool := prov.Pool.TotalLamports()
	minimumDelegation := prov.Pool.MinimumDelegation()

	targetLamports, err := state.Delegations[index].TargetLamports(effectivePool)
	if err != nil {
		return RebalanceDecision{}, wrap(err, "rebalance")
	}

	currentLamports := entry.ActiveStakeLamports
	internalBalance := state.ValidatorLamportBalances[index]

	// Stake-deposit detection runs unconditionally, before any decision is
	// computed: the internal balance follows currentLamports, except that
	// it holds at a known prior balance when currentLamports is above
	// target and not below that prior balance. A positive gap between
	// currentLamports and the *prior* internal balance, surviving into the
	// decrease branch below, is deposited-but-not-allocated stake.
	newInternalBalance := currentLamports
	if internalBalance != LamportBalanceUnset && internalBalance <= currentLamports && currentLamports > targetLamports {
		newInternalBalance = internalBalance
	}

	instantFlagged := state.InstantUnstakeFlags.Get(uint(index))

	var decision RebalanceDecision
	switch {
	case currentLamports > targetLamports || instantFlagged:
		components, err := decreaseComponents(state, params, effectivePool, currentLamports, internalBalance, targetLamports, instantFlagged)
		if err != nil {
			return RebalanceDecision{}, err
		}
		total := components.Total()
		if total == 0 || total < minimumDelegation {
			decision = RebalanceDecision{Action: RebalanceNone}
		} else {
			decision = RebalanceDecision{Action: RebalanceDecrease, Components: components, Lamports: total}
		}

	case currentLamports < targetLamports:
		decision, err = increaseDecision(state, list, effectiveReserve, effectivePool, minimumDelegation, index, currentLamports, targetLamports)
		if err != nil {
			return RebalanceDecision{}, err
		}

	default:
		decision = RebalanceDecision{Action: RebalanceNone}
	}

	state.ValidatorLamportBalances[index] = newInternalBalance

	switch decision.Action {
	case RebalanceIncrease:
		sum, ok := checkedAdd(newInternalBalance, decision.Lamports)
		if !ok {
			return RebalanceDecision{}, wrap(ErrArithmetic, "rebalance: increase overflow")
		}
		state.ValidatorLamportBalances[index] = sum

	case RebalanceDecrease:
		state.ValidatorLamportBalances[index] = saturatingSub(newInternalBalance, decision.Lamports)
		if decision.Components.StakeDeposit > 0 {
			addSpent(state, UnstakeCategoryStakeDeposit, decision.Components.StakeDeposit)
		}
		if decision.Components.Instant > 0 {
			addSpent(state, UnstakeCategoryInstant, decision.Components.Instant)
		}
		if decision.Components.Scoring > 0 {
			addSpent(state, UnstakeCategoryScoring, decision.Components.Scoring)
		}
		if decision.Components.Instant > 0 && !state.Delegations[index].IsZero() {
			redistributeDenominator(state, index)
		}
	}

	return decision, nil
}

// decreaseComponents computes the three decrease categories, each capped
// independently against its own remaining per-cycle budget:
//
//   - stakeDeposit: the excess of currentLamports over the prior internal
//     balance (deposited-but-not-allocated stake), capped by the
//     stake-deposit-unstake budget.
//   - instant: if instantFlagged, the remaining current balance after the
//     stake-deposit component, capped by the instant-unstake budget.
//   - scoring: whatever remains above targetLamports after the first two
//     components, capped by the scoring-unstake budget.
func decreaseComponents(state *StewardState, params *Parameters, effectivePool, currentLamports, priorInternalBalance, targetLamports uint64, instantFlagged bool) (UnstakeComponents, error) {
	excess := saturatingSub(currentLamports, priorInternalBalance)
	stakeDeposit := min64(excess, capForCategory(state, params, effectivePool, UnstakeCategoryStakeDeposit))

	remaining := saturatingSub(currentLamports, stakeDeposit)

	var instant uint64
	if instantFlagged {
		instant = min64(remaining, capForCategory(state, params, effectivePool, UnstakeCategoryInstant))
		remaining = saturatingSub(remaining, instant)
	}

	scoringWanted := saturatingSub(remaining, targetLamports)
	scoring := min64(scoringWanted, capForCategory(state, params, effectivePool, UnstakeCategoryScoring))

	return UnstakeComponents{StakeDeposit: stakeDeposit, Instant: instant, Scoring: scoring}, nil
}

// increaseDecision walks sorted_score_indices from the top, reserving
// effective_reserve lamports for every higher-priority validator (earlier
// in score order, not yet instant-unstake-flagged) still below its own
// target, before computing this validator's own share of what's left.
// Never allocates a nonzero amount below minimumDelegation.
func increaseDecision(state *StewardState, list []ValidatorListEntry, effectiveReserve, effectivePool, minimumDelegation uint64, index int, currentLamports, targetLamports uint64) (RebalanceDecision, error) {
	remainingReserve := effectiveReserve

	for i := 0; i < state.NumPoolValidators; i++ {
		peerIdx := state.SortedScoreIndices[i]
		if peerIdx == SortedIndexDefault || int(peerIdx) == index {
			break
		}
		if int(peerIdx) >= len(list) || state.InstantUnstakeFlags.Get(uint(peerIdx)) {
			continue
		}

		peerTarget, err := state.Delegations[peerIdx].TargetLamports(effectivePool)
		if err != nil {
			continue
		}
		peerCurrent := list[peerIdx].ActiveStakeLamports
		if peerCurrent >= peerTarget {
			continue
		}

		need := peerTarget - peerCurrent
		remainingReserve = saturatingSub(remainingReserve, min64(need, remainingReserve))
		if remainingReserve == 0 {
			break
		}
	}

	wanted := targetLamports - currentLamports
	amount := min64(wanted, remainingReserve)
	if amount == 0 || amount < minimumDelegation {
		return RebalanceDecision{Action: RebalanceNone}, nil
	}
	return RebalanceDecision{Action: RebalanceIncrease, Lamports: amount}, nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
