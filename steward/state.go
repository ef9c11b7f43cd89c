package steward

// StateTag identifies which phase of the cycle the state machine currently
// occupies. The zero value, StateComputeScores, is also the state a fresh
// cycle restarts into.
type StateTag uint8

const (
	StateComputeScores StateTag = iota
	StateComputeDelegations
	StateIdle
	StateComputeInstantUnstake
	StateRebalance
)

func (t StateTag) String() string {
	switch t {
	case StateComputeScores:
		return "ComputeScores"
	case StateComputeDelegations:
		return "ComputeDelegations"
	case StateIdle:
		return "Idle"
	case StateComputeInstantUnstake:
		return "ComputeInstantUnstake"
	case StateRebalance:
		return "Rebalance"
	default:
		return "Unknown"
	}
}

// StewardState is the complete mutable record the state machine operates
// over: per-validator struct-of-arrays plus the cycle bookkeeping fields.
// Every per-validator slice is allocated at MaxValidators capacity up
// front and addressed by validator index; NumPoolValidators is the live
// prefix length. This mirrors the reference implementation's fixed-size
// zero-copy account layout without needing Go's own zero-copy mechanism:
// the arrays simply never reallocate after NewStewardState.
type StewardState struct {
	StateTag StateTag

	// NumPoolValidators is the number of validators currently tracked;
	// indices [0, NumPoolValidators) in every per-validator slice are
	// live, the remainder are unused capacity.
	NumPoolValidators int

	// CurrentEpoch and NextCycleEpoch drive cycle-restart detection: any
	// operation that observes CurrentEpoch >= NextCycleEpoch must first
	// restart the cycle via resetStateForNewCycle before doing its own
	// work.
	CurrentEpoch   uint64
	NextCycleEpoch uint64

	// ScoringUnstakeTotal, InstantUnstakeTotal, StakeDepositUnstakeTotal
	// accumulate lamports unstaked this cycle in each category, checked
	// against their respective *_unstake_cap_bps caps in rebalance.
	ScoringUnstakeTotal      uint64
	InstantUnstakeTotal      uint64
	StakeDepositUnstakeTotal uint64

	// NumEpochsBetweenScoring mirrors the Parameters field active when the
	// current cycle began, so a mid-cycle parameter update cannot retroactively
	// change when this cycle ends.
	NumEpochsBetweenScoring uint64

	// Scores, RawScores hold the packed 64-bit score (post-filter) and
	// unfiltered raw score per validator index, as produced by
	// computeValidatorScore.
	Scores    []uint64
	RawScores []uint64

	// SortedScoreIndices, SortedRawScoreIndices hold validator indices in
	// descending order of Scores/RawScores respectively, maintained
	// incrementally by insertSortedIndex. Unused tail entries are
	// SortedIndexDefault.
	SortedScoreIndices    []uint16
	SortedRawScoreIndices []uint16

	// YieldScoreIndices is a third sorted-index array, reset with the
	// other two at each cycle start and fixed up by RemoveValidator. No
	// operation in this package fills it or reads it; rebalance's increase
	// path walks SortedScoreIndices.
	YieldScoreIndices []uint16

	// Delegations holds each validator's target share of the pool as
	// decided by the last ComputeDelegations pass.
	Delegations []Delegation

	// ValidatorLamportBalances is steward's own internal accounting of
	// each validator's active stake, maintained independently of the pool
	// program's ValidatorListEntry.ActiveStakeLamports so that rebalance
	// can detect externally-initiated stake deposits (current balance
	// exceeding steward's internal record).
	ValidatorLamportBalances []uint64

	// InstantUnstakeFlags marks validators zeroed by the current cycle's
	// ComputeInstantUnstake pass.
	InstantUnstakeFlags *BitMask

	// RebalanceDecisions holds the most recent rebalance decision computed
	// per validator index. The keeper consults this immediately after
	// calling Transition for an index in the Rebalance state to know what
	// instruction, if any, to submit; it is overwritten on every rebalance
	// pass and is not meaningful outside the Rebalance state.
	RebalanceDecisions []RebalanceDecision

	// ProgressFlags tracks, per validator index, whether the current
	// state's per-validator work has been completed for that index this
	// cycle — the mechanism that makes every per-validator operation
	// idempotent and resumable across many separate calls.
	ProgressFlags *BitMask

	// ValidatorsToRemove marks validators queued for ordinary (end of
	// cycle) removal once fully deactivated.
	ValidatorsToRemove *BitMask

	// ValidatorsForImmediateRemoval marks validators queued for removal
	// regardless of cycle phase (e.g. no longer present in the vote
	// account set).
	ValidatorsForImmediateRemoval *BitMask

	// ValidatorsAdded counts validators appended to the pool since the
	// cycle began, for operator visibility only.
	ValidatorsAdded uint64
}

// NewStewardState returns a StewardState with every per-validator slice
// preallocated at MaxValidators and all sentinels/bitmasks initialized,
// ready for resetStateForNewCycle.
func NewStewardState() *StewardState {
	s := &StewardState{
		StateTag:                       StateComputeScores,
		Scores:                         make([]uint64, MaxValidators),
		RawScores:                      make([]uint64, MaxValidators),
		SortedScoreIndices:             make([]uint16, MaxValidators),
		SortedRawScoreIndices:          make([]uint16, MaxValidators),
		YieldScoreIndices:              make([]uint16, MaxValidators),
		Delegations:                    make([]Delegation, MaxValidators),
		ValidatorLamportBalances:       make([]uint64, MaxValidators),
		RebalanceDecisions:             make([]RebalanceDecision, MaxValidators),
		InstantUnstakeFlags:            NewBitMask(MaxValidators),
		ProgressFlags:                  NewBitMask(MaxValidators),
		ValidatorsToRemove:             NewBitMask(MaxValidators),
		ValidatorsForImmediateRemoval:  NewBitMask(MaxValidators),
	}
	s.resetSortedIndices()
	for i := range s.ValidatorLamportBalances {
		s.ValidatorLamportBalances[i] = LamportBalanceUnset
	}
	for i := range s.Delegations {
		s.Delegations[i] = ZeroDelegation
	}
	return s
}

func (s *StewardState) resetSortedIndices() {
	for i := range s.SortedScoreIndices {
		s.SortedScoreIndices[i] = SortedIndexDefault
		s.SortedRawScoreIndices[i] = SortedIndexDefault
		s.YieldScoreIndices[i] = SortedIndexDefault
	}
}

// checkIndex validates a validator index against the live prefix.
func (s *StewardState) checkIndex(index int) error {
	if index < 0 || index >= s.NumPoolValidators {
		return wrap(ErrValidatorIndexOutOfBounds, "StewardState")
	}
	return nil
}
