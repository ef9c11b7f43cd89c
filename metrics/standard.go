package metrics

// Pre-defined metrics for the steward keeper. All metrics live in
// DefaultRegistry so they are globally accessible without passing a
// registry around.

var (
	// ---- Cycle metrics ----

	// CycleEpoch tracks the epoch the current scoring cycle began in.
	CycleEpoch = DefaultRegistry.Gauge("cycle.epoch")
	// CycleTransitions counts state-machine transitions across every state.
	CycleTransitions = DefaultRegistry.Counter("cycle.transitions")
	// CycleRestarts counts cycle-restart preemptions (current_epoch reaching
	// next_cycle_epoch from any state).
	CycleRestarts = DefaultRegistry.Counter("cycle.restarts")

	// ---- Scoring metrics ----

	// ValidatorsScored counts validators scored this cycle.
	ValidatorsScored = DefaultRegistry.Counter("scoring.validators_scored")
	// ValidatorsEligible tracks the number of validators whose score
	// survived every eligibility filter as of the last ComputeScores pass.
	ValidatorsEligible = DefaultRegistry.Gauge("scoring.validators_eligible")
	// ScoreComputeTime records compute_score wall time in milliseconds.
	ScoreComputeTime = DefaultRegistry.Histogram("scoring.compute_ms")

	// ---- Delegation metrics ----

	// ValidatorsDelegated tracks the size of the current top-k delegate set.
	ValidatorsDelegated = DefaultRegistry.Gauge("delegation.validators_delegated")

	// ---- Instant unstake metrics ----

	// InstantUnstakeFlagged counts validators flagged for instant unstake
	// this cycle.
	InstantUnstakeFlagged = DefaultRegistry.Counter("instant_unstake.flagged")

	// ---- Rebalance metrics ----

	// RebalanceIncreases counts IncreaseValidatorStake instructions
	// submitted.
	RebalanceIncreases = DefaultRegistry.Counter("rebalance.increases")
	// RebalanceDecreases counts the nonzero unstake categories of submitted
	// DecreaseValidatorStake instructions: one per category, so a single
	// instruction adds up to three.
	RebalanceDecreases = DefaultRegistry.Counter("rebalance.decreases")
	// RebalanceLamportsMoved sums lamports moved by rebalance instructions,
	// in both directions.
	RebalanceLamportsMoved = DefaultRegistry.Counter("rebalance.lamports_moved")
	// ScoringUnstakeCapHits counts submitted decreases with a nonzero
	// scoring-unstake component; whether the cap was reached is not checked.
	ScoringUnstakeCapHits = DefaultRegistry.Counter("rebalance.scoring_cap_hits")
	// InstantUnstakeCapHits counts submitted decreases with a nonzero
	// instant-unstake component; whether the cap was reached is not checked.
	InstantUnstakeCapHits = DefaultRegistry.Counter("rebalance.instant_cap_hits")
	// StakeDepositUnstakeCapHits counts submitted decreases with a nonzero
	// stake-deposit-unstake component; whether the cap was reached is not
	// checked.
	StakeDepositUnstakeCapHits = DefaultRegistry.Counter("rebalance.stake_deposit_cap_hits")

	// ---- Validator set maintenance metrics ----

	// ValidatorsAdded counts AddValidatorToPool instructions submitted by
	// the auto-add sweep.
	ValidatorsAdded = DefaultRegistry.Counter("maintenance.validators_added")
	// ValidatorsRemoved counts RemoveValidatorFromPool instructions
	// submitted by the removal sweeps.
	ValidatorsRemoved = DefaultRegistry.Counter("maintenance.validators_removed")

	// ---- Keeper loop metrics ----

	// KeeperTicks counts completed keeper control-loop ticks.
	KeeperTicks = DefaultRegistry.Counter("keeper.ticks")
	// KeeperTickTime records one tick's wall time in milliseconds.
	KeeperTickTime = DefaultRegistry.Histogram("keeper.tick_ms")
	// KeeperSubmitErrors counts instruction submissions that failed after
	// exhausting retries.
	KeeperSubmitErrors = DefaultRegistry.Counter("keeper.submit_errors")
	// KeeperSubmitRetries counts individual retry attempts across all
	// submissions.
	KeeperSubmitRetries = DefaultRegistry.Counter("keeper.submit_retries")
)
