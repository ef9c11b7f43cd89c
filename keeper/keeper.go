// Package keeper implements the external control loop that drives the
// steward state machine: a single-threaded cooperative tick that fetches
// fresh account data, runs a fixed decision cascade, and submits the
// resulting instructions with batching and retry. The state machine
// itself (package steward) stays pure; keeper is the only package that
// performs I/O.
package keeper

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	slog "github.com/jito-foundation/steward/log"
	"github.com/jito-foundation/steward/metrics"
	"github.com/jito-foundation/steward/steward"
)

// Clock abstracts wall-clock reads so ticks can be driven deterministically
// in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds the keeper's own tunables, distinct from steward.Parameters
// (which govern the state machine itself). Grounded on the teacher's
// ConsensusConfig-style config struct with a Default constructor; Config
// has no Validate method.
type Config struct {
	// TickInterval is the minimum spacing between ticks.
	TickInterval time.Duration

	// MaxInstructionsPerTick bounds how many Transition calls a single
	// tick makes and how many successful StakePoolMutator calls it
	// submits, so one slow RPC node can't starve the whole validator set
	// of attention.
	MaxInstructionsPerTick int

	// SubmitRetries is the number of retry attempts for a failed
	// instruction submission before it is counted as a keeper.submit_error
	// and skipped until the next tick.
	SubmitRetries int

	// SubmitBackoff is the base delay between retry attempts; actual
	// delay grows linearly with attempt number.
	SubmitBackoff time.Duration
}

// DefaultConfig returns reasonable keeper tunables.
func DefaultConfig() Config {
	return Config{
		TickInterval:           400 * time.Millisecond,
		MaxInstructionsPerTick: 20,
		SubmitRetries:          3,
		SubmitBackoff:          200 * time.Millisecond,
	}
}

// Keeper owns the state machine, its collaborators, and the pacing/retry
// machinery used to drive it against a live cluster.
type Keeper struct {
	cfg    Config
	state  *steward.StewardState
	params *steward.Parameters
	pool   steward.StakePoolView
	mut    steward.StakePoolMutator

	historySource  ValidatorHistorySource
	clockImpl      ClockSource
	clusterHistory steward.ClusterHistory
	stakeHistory   steward.StakeHistory

	limiter *rate.Limiter
	clock   Clock
	log     *slog.Logger
	sink    *metrics.Sink
}

// Collaborators bundles the I/O-performing dependencies Keeper needs
// beyond the pure StakePoolView/StakePoolMutator pair, kept as a separate
// argument group so tests can swap them independently of pool/mutator
// fakes.
type Collaborators struct {
	HistorySource  ValidatorHistorySource
	Clock          ClockSource
	ClusterHistory steward.ClusterHistory
	StakeHistory   steward.StakeHistory
}

// New constructs a Keeper. state and params are owned by the caller and
// mutated in place across ticks, the same way the reference
// implementation's on-chain account is mutated in place across
// transactions.
func New(cfg Config, state *steward.StewardState, params *steward.Parameters, pool steward.StakePoolView, mut steward.StakePoolMutator, collab Collaborators, logger *slog.Logger) *Keeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keeper{
		cfg:            cfg,
		state:          state,
		params:         params,
		pool:           pool,
		mut:            mut,
		historySource:  collab.HistorySource,
		clockImpl:      collab.Clock,
		clusterHistory: collab.ClusterHistory,
		stakeHistory:   collab.StakeHistory,
		limiter:        rate.NewLimiter(rate.Every(cfg.TickInterval), 1),
		clock:          realClock{},
		log:            logger.Module("keeper"),
		sink:           metrics.NewSink(),
	}
}

// Run loops Tick until ctx is cancelled, pacing via cfg.TickInterval.
func (k *Keeper) Run(ctx context.Context) error {
	for {
		if err := k.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := k.Tick(ctx); err != nil {
			k.log.Error("tick failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
