package keeper

import (
	"context"
	"time"

	"github.com/jito-foundation/steward/steward"
)

// submitPendingActions inspects the outcome of this tick's per-validator
// work and submits the corresponding stake-pool instructions. Only the
// Rebalance state produces instructions directly; ComputeScores,
// ComputeDelegations, Idle, and ComputeInstantUnstake are pure bookkeeping
// against StewardState and need no on-chain call of their own.
func (k *Keeper) submitPendingActions(ctx context.Context, prov steward.Providers) error {
	if k.state.StateTag != steward.StateRebalance {
		return nil
	}

	budget := k.cfg.MaxInstructionsPerTick
	submitted := 0
	for i := 0; i < k.state.NumPoolValidators && submitted < budget; i++ {
		decision := k.state.RebalanceDecisions[i]
		switch decision.Action {
		case steward.RebalanceIncrease:
			if err := k.submitWithRetry(ctx, func(ctx context.Context) error {
				return k.mut.IncreaseValidatorStake(ctx, i, decision.Lamports)
			}); err != nil {
				k.sink.SubmitError()
				continue
			}
			k.sink.RebalanceIncrease(decision.Lamports)
			submitted++

		case steward.RebalanceDecrease:
			if err := k.submitWithRetry(ctx, func(ctx context.Context) error {
				return k.mut.DecreaseValidatorStake(ctx, i, decision.Lamports)
			}); err != nil {
				k.sink.SubmitError()
				continue
			}
			if decision.Components.StakeDeposit > 0 {
				k.sink.RebalanceDecrease(decision.Components.StakeDeposit, unstakeCategoryLabel(steward.UnstakeCategoryStakeDeposit))
			}
			if decision.Components.Instant > 0 {
				k.sink.RebalanceDecrease(decision.Components.Instant, unstakeCategoryLabel(steward.UnstakeCategoryInstant))
			}
			if decision.Components.Scoring > 0 {
				k.sink.RebalanceDecrease(decision.Components.Scoring, unstakeCategoryLabel(steward.UnstakeCategoryScoring))
			}
			submitted++
		}
	}
	return nil
}

// submitWithRetry retries fn up to cfg.SubmitRetries times with a linearly
// growing backoff, matching the reference keeper's tolerance for
// transient RPC failures without masking a persistently broken
// submission path.
func (k *Keeper) submitWithRetry(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= k.cfg.SubmitRetries; attempt++ {
		if attempt > 0 {
			k.sink.SubmitRetry()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * k.cfg.SubmitBackoff):
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func unstakeCategoryLabel(c steward.UnstakeCategory) string {
	switch c {
	case steward.UnstakeCategoryStakeDeposit:
		return "stake_deposit"
	case steward.UnstakeCategoryInstant:
		return "instant"
	case steward.UnstakeCategoryScoring:
		return "scoring"
	default:
		return "none"
	}
}
