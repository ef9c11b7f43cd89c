package steward

import "math"

const (
	// MaxValidators is the fixed capacity of every per-validator array in
	// StewardState. Unlike the zero-copy on-chain record this implementation
	// mirrors, Go's slices are heap-allocated, but the capacity is still
	// fixed at construction time and never grows — operations stay O(1) in
	// allocation the same way the reference record does.
	MaxValidators = 4000

	// ValidatorHistoryBlacklistCapacity sizes the larger bitmask used for
	// validator_history_blacklist, which is indexed by a slot in the
	// validator-history ring buffer rather than by pool position and can
	// outgrow MaxValidators as validators cycle in and out of the pool.
	ValidatorHistoryBlacklistCapacity = 8 * MaxValidators

	// SortedIndexDefault is the sentinel stored in unused slots of
	// sorted_score_indices / sorted_raw_score_indices.
	SortedIndexDefault uint16 = math.MaxUint16

	// LamportBalanceUnset is the sentinel for an uninitialized
	// validator_lamport_balances slot.
	LamportBalanceUnset uint64 = math.MaxUint64

	// BasisPointsDenominator is the divisor for all *_cap_bps parameters.
	BasisPointsDenominator uint64 = 10000
)
