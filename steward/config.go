package steward

import "fmt"

// Parameters holds every tunable of the steward state machine (spec.md
// §6.2). It is validated as a whole on InitializeConfig and UpdateParameters
// so that a partially-invalid patch never reaches the live config.
type Parameters struct {
	// MEVCommissionRange is the number of epochs averaged for the MEV
	// commission filter/tier.
	MEVCommissionRange uint64

	// EpochCreditsRange is the number of epochs averaged for the vote
	// credits tier.
	EpochCreditsRange uint64

	// CommissionRange is the number of epochs averaged for the inflation
	// commission tier.
	CommissionRange uint64

	// ScoringDelinquencyThresholdRatio is the credits/blocks ratio below
	// which an epoch counts as delinquent for scoring purposes.
	ScoringDelinquencyThresholdRatio float64

	// InstantUnstakeDelinquencyThresholdRatio is the same ratio used for the
	// instant-unstake delinquency check (typically stricter).
	InstantUnstakeDelinquencyThresholdRatio float64

	// MEVCommissionBPSThreshold is the maximum MEV commission, in basis
	// points, a validator may charge and remain eligible.
	MEVCommissionBPSThreshold uint32

	// CommissionThreshold is the maximum inflation commission (percent,
	// 0-100) a validator may charge and remain eligible.
	CommissionThreshold uint8

	// HistoricalCommissionThreshold is the maximum inflation commission
	// (percent) over the full historical window.
	HistoricalCommissionThreshold uint8

	// NumDelegationValidators is the top-k size in ComputeDelegations.
	NumDelegationValidators uint32

	// ScoringUnstakeCapBPS, InstantUnstakeCapBPS, StakeDepositUnstakeCapBPS
	// bound the three unstake categories as basis points of the effective
	// pool, enforced per cycle.
	ScoringUnstakeCapBPS      uint32
	InstantUnstakeCapBPS      uint32
	StakeDepositUnstakeCapBPS uint32

	// InstantUnstakeEpochProgress is the fraction of the epoch, in [0,1],
	// after which the Idle -> ComputeInstantUnstake transition may occur.
	InstantUnstakeEpochProgress float64

	// InstantUnstakeInputsEpochProgress is the minimum data-freshness
	// fraction of the epoch that validator/cluster history must reach
	// before compute_instant_unstake will accept them.
	InstantUnstakeInputsEpochProgress float64

	// ComputeScoreSlotRange bounds the number of slots a scoring cycle may
	// take before ComputeScores resets and restarts.
	ComputeScoreSlotRange uint64

	// NumEpochsBetweenScoring is the cycle length.
	NumEpochsBetweenScoring uint64

	// MinimumStakeLamports is the liveness threshold for AutoAddValidator.
	MinimumStakeLamports uint64

	// MinimumVotingEpochs is the liveness threshold (recent epochs with
	// credits) for AutoAddValidator.
	MinimumVotingEpochs uint64

	// Paused causes every state-advancing operation to fail fast with
	// ErrStateMachinePaused.
	Paused bool
}

// UpdateParametersArgs is the patch document accepted by UpdateParameters;
// nil fields leave the corresponding Parameters field unchanged. The CLI and
// keeper both construct this from parsed YAML/flags.
type UpdateParametersArgs struct {
	MEVCommissionRange                       *uint64
	EpochCreditsRange                        *uint64
	CommissionRange                          *uint64
	ScoringDelinquencyThresholdRatio          *float64
	InstantUnstakeDelinquencyThresholdRatio   *float64
	MEVCommissionBPSThreshold                 *uint32
	CommissionThreshold                       *uint8
	HistoricalCommissionThreshold             *uint8
	NumDelegationValidators                   *uint32
	ScoringUnstakeCapBPS                      *uint32
	InstantUnstakeCapBPS                      *uint32
	StakeDepositUnstakeCapBPS                 *uint32
	InstantUnstakeEpochProgress               *float64
	InstantUnstakeInputsEpochProgress         *float64
	ComputeScoreSlotRange                     *uint64
	NumEpochsBetweenScoring                   *uint64
	MinimumStakeLamports                      *uint64
	MinimumVotingEpochs                       *uint64
}

// DefaultParameters returns mainnet-like defaults, analogous to the
// teacher's DefaultConfig constructors.
func DefaultParameters() *Parameters {
	return &Parameters{
		MEVCommissionRange:                       10,
		EpochCreditsRange:                        10,
		CommissionRange:                          10,
		ScoringDelinquencyThresholdRatio:          0.85,
		InstantUnstakeDelinquencyThresholdRatio:   0.70,
		MEVCommissionBPSThreshold:                 1000,
		CommissionThreshold:                       10,
		HistoricalCommissionThreshold:             10,
		NumDelegationValidators:                   200,
		ScoringUnstakeCapBPS:                      750,
		InstantUnstakeCapBPS:                      1000,
		StakeDepositUnstakeCapBPS:                 1000,
		InstantUnstakeEpochProgress:               0.90,
		InstantUnstakeInputsEpochProgress:          0.50,
		ComputeScoreSlotRange:                     1000,
		NumEpochsBetweenScoring:                   3,
		MinimumStakeLamports:                      1_000_000_000_000,
		MinimumVotingEpochs:                        5,
	}
}

// Apply merges a patch into p, returning an error (without mutating p) if
// the result would be invalid.
func (p *Parameters) Apply(args UpdateParametersArgs) error {
	patched := *p
	assignU64(&patched.MEVCommissionRange, args.MEVCommissionRange)
	assignU64(&patched.EpochCreditsRange, args.EpochCreditsRange)
	assignU64(&patched.CommissionRange, args.CommissionRange)
	assignF64(&patched.ScoringDelinquencyThresholdRatio, args.ScoringDelinquencyThresholdRatio)
	assignF64(&patched.InstantUnstakeDelinquencyThresholdRatio, args.InstantUnstakeDelinquencyThresholdRatio)
	assignU32(&patched.MEVCommissionBPSThreshold, args.MEVCommissionBPSThreshold)
	assignU8(&patched.CommissionThreshold, args.CommissionThreshold)
	assignU8(&patched.HistoricalCommissionThreshold, args.HistoricalCommissionThreshold)
	assignU32(&patched.NumDelegationValidators, args.NumDelegationValidators)
	assignU32(&patched.ScoringUnstakeCapBPS, args.ScoringUnstakeCapBPS)
	assignU32(&patched.InstantUnstakeCapBPS, args.InstantUnstakeCapBPS)
	assignU32(&patched.StakeDepositUnstakeCapBPS, args.StakeDepositUnstakeCapBPS)
	assignF64(&patched.InstantUnstakeEpochProgress, args.InstantUnstakeEpochProgress)
	assignF64(&patched.InstantUnstakeInputsEpochProgress, args.InstantUnstakeInputsEpochProgress)
	assignU64(&patched.ComputeScoreSlotRange, args.ComputeScoreSlotRange)
	assignU64(&patched.NumEpochsBetweenScoring, args.NumEpochsBetweenScoring)
	assignU64(&patched.MinimumStakeLamports, args.MinimumStakeLamports)
	assignU64(&patched.MinimumVotingEpochs, args.MinimumVotingEpochs)

	if err := patched.Validate(); err != nil {
		return err
	}
	*p = patched
	return nil
}

// Validate checks every field enumerated in spec.md §6.2 for internal
// consistency. Mirrors the teacher's ConsensusConfig.Validate shape: one
// guard clause per constraint, wrapped in ErrInvalidParameter.
func (p *Parameters) Validate() error {
	switch {
	case p.NumEpochsBetweenScoring == 0:
		return invalidParam("num_epochs_between_scoring must be > 0")
	case p.ComputeScoreSlotRange == 0:
		return invalidParam("compute_score_slot_range must be > 0")
	case p.NumDelegationValidators == 0:
		return invalidParam("num_delegation_validators must be > 0")
	case p.CommissionThreshold > 100:
		return invalidParam("commission_threshold must be <= 100")
	case p.HistoricalCommissionThreshold > 100:
		return invalidParam("historical_commission_threshold must be <= 100")
	case p.MEVCommissionBPSThreshold > 10000:
		return invalidParam("mev_commission_bps_threshold must be <= 10000")
	case p.ScoringUnstakeCapBPS > 10000:
		return invalidParam("scoring_unstake_cap_bps must be <= 10000")
	case p.InstantUnstakeCapBPS > 10000:
		return invalidParam("instant_unstake_cap_bps must be <= 10000")
	case p.StakeDepositUnstakeCapBPS > 10000:
		return invalidParam("stake_deposit_unstake_cap_bps must be <= 10000")
	case p.InstantUnstakeEpochProgress < 0 || p.InstantUnstakeEpochProgress > 1:
		return invalidParam("instant_unstake_epoch_progress must be in [0,1]")
	case p.InstantUnstakeInputsEpochProgress < 0 || p.InstantUnstakeInputsEpochProgress > 1:
		return invalidParam("instant_unstake_inputs_epoch_progress must be in [0,1]")
	case p.ScoringDelinquencyThresholdRatio < 0 || p.ScoringDelinquencyThresholdRatio > 1:
		return invalidParam("scoring_delinquency_threshold_ratio must be in [0,1]")
	case p.InstantUnstakeDelinquencyThresholdRatio < 0 || p.InstantUnstakeDelinquencyThresholdRatio > 1:
		return invalidParam("instant_unstake_delinquency_threshold_ratio must be in [0,1]")
	case p.MEVCommissionRange == 0 || p.EpochCreditsRange == 0 || p.CommissionRange == 0:
		return invalidParam("scoring window ranges must be > 0")
	}
	return nil
}

func invalidParam(msg string) error {
	return wrap(fmt.Errorf("%s: %w", msg, ErrInvalidParameter), "Parameters.Validate")
}

func assignU64(dst *uint64, src *uint64) {
	if src != nil {
		*dst = *src
	}
}

func assignU32(dst *uint32, src *uint32) {
	if src != nil {
		*dst = *src
	}
}

func assignU8(dst *uint8, src *uint8) {
	if src != nil {
		*dst = *src
	}
}

func assignF64(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
