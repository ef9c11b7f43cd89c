package steward

// score.go implements the validator scoring function: a packed 64-bit
// integer with four bit-tiers, gated by a product of binary eligibility
// filters. This replaces the original floating-point score encoding (see
// DESIGN.md) while keeping every other piece of compute_score's control
// flow — data-freshness checks, the delinquency window, and the
// restart/skip logic — grounded on the reference implementation.
//
// Bit layout, most significant bit first:
//
//	[63:56] 8 bits   inverted inflation commission (100 - pct), clamped to commissionMask
//	[55:42] 14 bits  inverted MEV commission (10000 - bps), clamped to mevCommissionMask
//	[41:25] 17 bits  validator age in epochs, clamped to ageMask
//	[24:0]  25 bits  average vote credits, clamped to voteCreditsMask
//
// Packing as a single integer, most-significant tier first, means ordinary
// uint64 comparison is exactly the tiered comparison: inflation commission
// dominates every other field, ties on commission fall through to MEV
// commission, then age, then vote credits, with no additional comparator
// logic needed at sort time.
const (
	commissionBits    = 8
	mevCommissionBits = 14
	ageBits           = 17
	voteCreditsBits   = 25

	commissionMask    = (uint64(1) << commissionBits) - 1
	mevCommissionMask = (uint64(1) << mevCommissionBits) - 1
	ageMask           = (uint64(1) << ageBits) - 1
	voteCreditsMask   = (uint64(1) << voteCreditsBits) - 1
)

// packScore assembles the four tiers into a single orderable uint64. Each
// input is clamped to its tier's width rather than erroring, since a value
// that overflows its tier (e.g. an validator active for more epochs than
// ageMask can represent) should saturate at "maximally good" for that
// tier, not corrupt adjacent tiers.
func packScore(invertedCommission, invertedMEVCommission, age, voteCredits uint64) uint64 {
	if invertedCommission > commissionMask {
		invertedCommission = commissionMask
	}
	if invertedMEVCommission > mevCommissionMask {
		invertedMEVCommission = mevCommissionMask
	}
	if age > ageMask {
		age = ageMask
	}
	if voteCredits > voteCreditsMask {
		voteCredits = voteCreditsMask
	}

	score := invertedCommission << (mevCommissionBits + ageBits + voteCreditsBits)
	score |= invertedMEVCommission << (ageBits + voteCreditsBits)
	score |= age << voteCreditsBits
	score |= voteCredits
	return score
}

// ScoreBreakdown exposes the unpacked tiers of a packed score, primarily
// for CLI rendering and tests.
type ScoreBreakdown struct {
	InvertedCommission    uint64
	InvertedMEVCommission uint64
	Age                   uint64
	VoteCredits           uint64
}

func unpackScore(score uint64) ScoreBreakdown {
	return ScoreBreakdown{
		VoteCredits:           score & voteCreditsMask,
		Age:                   (score >> voteCreditsBits) & ageMask,
		InvertedMEVCommission: (score >> (voteCreditsBits + ageBits)) & mevCommissionMask,
		InvertedCommission:    score >> (voteCreditsBits + ageBits + mevCommissionBits),
	}
}

// EligibilityFilters are the seven binary (0 or 1) gates a validator must
// all pass for its raw_score to count toward sorting. A validator failing
// any filter still gets a raw_score (for operator visibility) but its
// scored value — raw_score times the product of these filters — is zero,
// which sorts it to the bottom and excludes it from delegation.
type EligibilityFilters struct {
	MEVCommissionScore        uint8
	CommissionScore           uint8
	HistoricalCommissionScore uint8
	BlacklistedScore          uint8
	SuperminorityScore        uint8
	RunningJitoScore          uint8
	DelinquencyScore          uint8
}

// Product multiplies the seven filters together; a single 0 anywhere
// zeroes the whole product, matching the reference's AND-via-multiply
// idiom.
func (f EligibilityFilters) Product() uint64 {
	return uint64(f.MEVCommissionScore) * uint64(f.CommissionScore) *
		uint64(f.HistoricalCommissionScore) * uint64(f.BlacklistedScore) *
		uint64(f.SuperminorityScore) * uint64(f.RunningJitoScore) *
		uint64(f.DelinquencyScore)
}

// ScoreComponents is the full output of scoring one validator for one
// cycle: the raw (unfiltered) packed score, the eligibility filters, and
// the final scored value used for sorting and top-k selection.
type ScoreComponents struct {
	RawScore uint64
	Filters  EligibilityFilters
	Score    uint64
}

func boolFilter(pass bool) uint8 {
	if pass {
		return 1
	}
	return 0
}

// computeValidatorScore evaluates one validator's eligibility filters and
// packed score for cycleEpoch, given its ValidatorHistory, the cluster
// history, and the live Parameters. It returns
// ErrVoteHistoryNotRecentEnough or ErrClusterHistoryNotRecentEnough when
// the respective history was last updated before cycleEpoch-1, per
// compute_score's freshness checks in the reference implementation.
func computeValidatorScore(
	params *Parameters,
	vh ValidatorHistory,
	ch ClusterHistory,
	cycleEpoch uint64,
) (ScoreComponents, error) {
	if vh.LastUpdatedEpoch() < cycleEpoch-1 {
		return ScoreComponents{}, wrap(ErrVoteHistoryNotRecentEnough, "computeValidatorScore")
	}
	if ch.LastUpdatedEpoch() < cycleEpoch-1 {
		return ScoreComponents{}, wrap(ErrClusterHistoryNotRecentEnough, "computeValidatorScore")
	}

	commissionWindowStart := saturatingSub(cycleEpoch, params.CommissionRange)
	mevWindowStart := saturatingSub(cycleEpoch, params.MEVCommissionRange)
	creditsWindowStart := saturatingSub(cycleEpoch, params.EpochCreditsRange)

	maxCommission := uint8(0)
	for e := commissionWindowStart; e <= cycleEpoch; e++ {
		if pct, ok := vh.Commission(e); ok && pct > maxCommission {
			maxCommission = pct
		}
	}
	maxHistoricalCommission := uint8(0)
	for e := vh.FirstEpoch(); e <= cycleEpoch; e++ {
		if pct, ok := vh.Commission(e); ok && pct > maxHistoricalCommission {
			maxHistoricalCommission = pct
		}
	}

	maxMEVBPS := uint16(0)
	ranJito := false
	for e := mevWindowStart; e <= cycleEpoch; e++ {
		if bps, ok := vh.MEVCommissionBPS(e); ok {
			if bps > maxMEVBPS {
				maxMEVBPS = bps
			}
			ranJito = true
		}
		if earned, ok := vh.MEVEarned(e); ok && earned {
			ranJito = true
		}
	}

	delinquent := false
	var creditSum, epochCount uint64
	for _, entry := range vh.EpochCredits(creditsWindowStart, cycleEpoch) {
		ratio, ok := entry.DelinquencyRatio()
		if ok && ratio < params.ScoringDelinquencyThresholdRatio {
			delinquent = true
		}
		creditSum += entry.Credits
		epochCount++
	}
	var avgCredits uint64
	if epochCount > 0 {
		avgCredits = creditSum / epochCount
	}

	superminority, _ := vh.IsSuperminority(cycleEpoch)
	age := saturatingSub(cycleEpoch, vh.FirstEpoch())

	filters := EligibilityFilters{
		MEVCommissionScore:        boolFilter(uint64(maxMEVBPS) <= uint64(params.MEVCommissionBPSThreshold)),
		CommissionScore:           boolFilter(maxCommission <= params.CommissionThreshold),
		HistoricalCommissionScore: boolFilter(maxHistoricalCommission <= params.HistoricalCommissionThreshold),
		BlacklistedScore:          boolFilter(!vh.IsBlacklisted()),
		SuperminorityScore:        boolFilter(!superminority),
		RunningJitoScore:          boolFilter(ranJito),
		DelinquencyScore:          boolFilter(!delinquent),
	}

	invertedCommission := uint64(100) - uint64(maxCommission)
	invertedMEV := uint64(10000) - uint64(maxMEVBPS)
	raw := packScore(invertedCommission, invertedMEV, age, avgCredits)

	return ScoreComponents{
		RawScore: raw,
		Filters:  filters,
		Score:    raw * filters.Product(),
	}, nil
}

// insertSortedIndex maintains indices in descending order of the scores
// slice by inserting validatorIndex into its sorted position, shifting
// every lower-priority entry right by one and dropping the last entry off
// the end. This is the reference implementation's insertion-sort strategy:
// O(N) per call so that a single per-validator instruction never exceeds a
// fixed compute budget, O(N^2) amortized across the full scoring phase of
// a cycle — acceptable since N is bounded by MaxValidators.
//
// indices holds validator indices (not scores); scores is indexed by
// validator index and supplies the comparison key. unset entries in
// indices must equal SortedIndexDefault.
func insertSortedIndex(indices []uint16, scores []uint64, validatorIndex uint16, numValidators int) {
	key := scores[validatorIndex]

	insertAt := numValidators
	for i := 0; i < numValidators; i++ {
		existing := indices[i]
		if existing == SortedIndexDefault || scores[existing] < key {
			insertAt = i
			break
		}
		if existing == validatorIndex {
			// Already placed at its correct position from a prior call in
			// the same pass; nothing to do.
			return
		}
	}

	for i := len(indices) - 1; i > insertAt; i-- {
		indices[i] = indices[i-1]
	}
	if insertAt < len(indices) {
		indices[insertAt] = validatorIndex
	}
}
