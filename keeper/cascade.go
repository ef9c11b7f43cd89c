package keeper

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jito-foundation/steward/steward"
)

// ValidatorHistorySource supplies a ValidatorHistory per tracked validator
// index and a set of off-pool candidate vote accounts eligible for
// auto-add. Implementations typically wrap an RPC client plus an
// inter-tick account cache.
type ValidatorHistorySource interface {
	HistoryFor(ctx context.Context, index int) (steward.ValidatorHistory, error)
	AutoAddCandidates(ctx context.Context) (map[steward.PubKey]steward.ValidatorHistory, error)
}

// ClockSource supplies the current epoch and slot bounds.
type ClockSource interface {
	CurrentEpoch(ctx context.Context) (uint64, error)
	EpochSlotRange(ctx context.Context) (start, end, current uint64, err error)
}

// Tick runs exactly one cooperative pass of the decision cascade: pool
// bookkeeping sync, epoch maintenance (if the epoch differs from
// state.CurrentEpoch), the immediate-removal sweep, the deactivated-removal
// sweep, then up to MaxInstructionsPerTick Transition calls (one per
// validator index, from index 0) followed by submission of any pending
// rebalance instructions. Epoch maintenance consists only of the auto-add
// sweep (gated on liveness thresholds), so auto-add runs before the
// removal sweeps and is skipped on ticks within an unchanged epoch. The
// order is fixed so that a crash and restart mid-tick always resumes into
// a consistent next step.
func (k *Keeper) Tick(ctx context.Context) error {
	start := k.clock.Now()
	k.sink.TickStarted()
	defer func() {
		k.sink.TickDuration(float64(k.clock.Now().Sub(start).Milliseconds()))
	}()

	if err := steward.SyncValidatorList(k.state, k.pool); err != nil {
		return err
	}

	epoch, err := k.clockImpl.CurrentEpoch(ctx)
	if err != nil {
		return err
	}

	if epoch != k.state.CurrentEpoch {
		if err := k.runEpochMaintenance(ctx, epoch); err != nil {
			return err
		}
	}

	if err := steward.SweepImmediateRemovals(k.state); err != nil {
		return err
	}
	if err := steward.SweepDeactivatedRemovals(k.state, k.pool); err != nil {
		return err
	}

	slotStart, slotEnd, currentSlot, err := k.clockImpl.EpochSlotRange(ctx)
	if err != nil {
		return err
	}

	prov := steward.Providers{
		Pool:           k.pool,
		ClusterHistory: k.clusterHistory,
		StakeHistory:   k.stakeHistory,
		CurrentSlot:    currentSlot,
		EpochStartSlot: slotStart,
		EpochEndSlot:   slotEnd,
	}

	histories, err := k.fetchHistories(ctx)
	if err != nil {
		return err
	}
	prov.Histories = histories

	before := k.state.StateTag
	n := k.state.NumPoolValidators
	budget := k.cfg.MaxInstructionsPerTick
	if budget <= 0 || budget > n {
		budget = n
	}
	for i := 0; i < budget; i++ {
		if err := steward.Transition(k.state, k.params, prov, epoch, i); err != nil {
			return err
		}
	}
	if before != k.state.StateTag {
		k.sink.CycleTransition()
	}

	return k.submitPendingActions(ctx, prov)
}

func (k *Keeper) runEpochMaintenance(ctx context.Context, epoch uint64) error {
	candidates, err := k.historySource.AutoAddCandidates(ctx)
	if err != nil {
		return err
	}
	added, err := steward.AutoAddEligibleValidators(ctx, k.params, k.pool, k.mut, candidates, epoch)
	if err != nil {
		return err
	}
	for i := 0; i < added; i++ {
		k.sink.ValidatorAdded()
	}
	return nil
}

// fetchHistories fans out per-validator history fetches concurrently,
// bounded by errgroup's implicit goroutine-per-call fan-out; a single
// failing fetch cancels the rest.
func (k *Keeper) fetchHistories(ctx context.Context) ([]steward.ValidatorHistory, error) {
	n := k.state.NumPoolValidators
	out := make([]steward.ValidatorHistory, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			h, err := k.historySource.HistoryFor(gctx, i)
			if err != nil {
				return err
			}
			out[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
