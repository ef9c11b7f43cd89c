package steward

import "github.com/cockroachdb/errors"

// Sentinel errors returned by steward operations. Callers compare against
// these with errors.Is; cockroachdb/errors wrapping at call sites attaches a
// stack trace without changing sentinel identity.
var (
	// State-machine misuse.
	ErrInvalidState               = errors.New("steward: invalid state for operation")
	ErrStateMachinePaused          = errors.New("steward: state machine is paused")
	ErrValidatorNotMarkedForRemoval = errors.New("steward: validator not marked for removal")
	ErrValidatorIndexOutOfBounds   = errors.New("steward: validator index out of bounds")
	ErrListStateMismatch           = errors.New("steward: validator list length does not match steward state")

	// Data freshness.
	ErrVoteHistoryNotRecentEnough    = errors.New("steward: vote account history not recent enough")
	ErrClusterHistoryNotRecentEnough = errors.New("steward: cluster history not recent enough")
	ErrStakeHistoryNotRecentEnough   = errors.New("steward: stake history not recent enough")
	ErrInstantUnstakeNotReady        = errors.New("steward: instant unstake phase not ready this epoch")

	// Arithmetic.
	ErrArithmetic = errors.New("steward: arithmetic overflow, underflow, or division by zero")

	// Config validation.
	ErrInvalidParameter = errors.New("steward: invalid parameter")
)

// Wrap attaches call-site context (function/operation name) to a sentinel
// error while preserving errors.Is matching against the sentinel.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "steward: %s", op)
}
