package steward

import "context"

// ValidatorListEntry is one validator's external bookkeeping row, as
// tracked by the stake pool itself rather than by StewardState. Index i in
// a ValidatorList corresponds to index i in every StewardState
// per-validator array; the two lists are kept in lockstep by construction
// (ErrListStateMismatch guards every operation that assumes this).
type ValidatorListEntry struct {
	VoteAccount PubKey

	// ActiveStakeLamports is the pool's current delegated stake to this
	// validator, as tracked by the pool program, independent of steward's
	// own validator_lamport_balances accounting.
	ActiveStakeLamports uint64

	// TransientStakeLamports is stake in flight (activating or
	// deactivating) for this validator.
	TransientStakeLamports uint64

	MarkedForRemoval bool
}

// StakePoolView is the narrow, read-only collaborator interface steward
// needs from the surrounding stake pool to run its pure computations.
// Implementations typically wrap cached on-chain account data; steward
// itself never performs I/O.
type StakePoolView interface {
	// NumValidators returns len(ValidatorList()).
	NumValidators() int

	// ValidatorList returns the pool's validator bookkeeping rows in the
	// same order as every StewardState per-validator array.
	ValidatorList() []ValidatorListEntry

	// ReserveLamports is the stake pool reserve account balance.
	ReserveLamports() uint64

	// TotalLamports is the pool's total managed lamports (reserve plus all
	// active and transient validator stake).
	TotalLamports() uint64

	// RentExemptReserve is the minimum balance the reserve account must
	// retain, below which it cannot fund new delegations.
	RentExemptReserve() uint64

	// MinimumDelegation is the stake program's minimum active-stake floor:
	// rebalance never decides to move a nonzero amount below this
	// threshold in either direction. The stake left on a validator after a
	// decrease is not checked against it.
	MinimumDelegation() uint64
}

// StakePoolMutator is the write surface steward's keeper drives against the
// stake pool program. Each method corresponds to one on-chain instruction;
// context carries submission deadlines/cancellation the same way the
// teacher's RPC collaborators take one.
type StakePoolMutator interface {
	// IncreaseValidatorStake delegates additional lamports from the reserve
	// to the validator at index i.
	IncreaseValidatorStake(ctx context.Context, index int, lamports uint64) error

	// DecreaseValidatorStake begins deactivating lamports of the
	// validator's active stake at index i.
	DecreaseValidatorStake(ctx context.Context, index int, lamports uint64) error

	// AddValidatorToPool appends a new validator to the pool's validator
	// list (and, by implication, to every StewardState per-validator
	// array on the next epoch maintenance pass).
	AddValidatorToPool(ctx context.Context, voteAccount PubKey) error

	// RemoveValidatorFromPool removes a fully-deactivated validator from
	// the pool's validator list.
	RemoveValidatorFromPool(ctx context.Context, index int) error
}
