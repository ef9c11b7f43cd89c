package metrics

// Sink is a narrow facade over DefaultRegistry's standard metrics, scoped
// to exactly the counters/gauges/histograms the keeper control loop emits.
// It exists so keeper code depends on a small named interface-shaped
// struct instead of reaching into the package-level vars directly,
// mirroring the teacher's SystemMetrics wrapper around the same registry.
type Sink struct{}

// NewSink returns a Sink bound to DefaultRegistry.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) TickStarted() {
	KeeperTicks.Inc()
}

func (s *Sink) TickDuration(ms float64) {
	KeeperTickTime.Observe(ms)
}

func (s *Sink) CycleTransition() {
	CycleTransitions.Inc()
}

func (s *Sink) CycleRestarted() {
	CycleRestarts.Inc()
}

func (s *Sink) ValidatorScored() {
	ValidatorsScored.Inc()
}

func (s *Sink) EligibleValidators(n int64) {
	ValidatorsEligible.Set(n)
}

func (s *Sink) DelegatedValidators(n int64) {
	ValidatorsDelegated.Set(n)
}

func (s *Sink) InstantUnstakeFlagged() {
	InstantUnstakeFlagged.Inc()
}

func (s *Sink) RebalanceIncrease(lamports uint64) {
	RebalanceIncreases.Inc()
	RebalanceLamportsMoved.Add(int64(lamports))
}

func (s *Sink) RebalanceDecrease(lamports uint64, category string) {
	RebalanceDecreases.Inc()
	RebalanceLamportsMoved.Add(int64(lamports))
	switch category {
	case "scoring":
		ScoringUnstakeCapHits.Inc()
	case "instant":
		InstantUnstakeCapHits.Inc()
	case "stake_deposit":
		StakeDepositUnstakeCapHits.Inc()
	}
}

func (s *Sink) ValidatorAdded() {
	ValidatorsAdded.Inc()
}

func (s *Sink) ValidatorRemoved() {
	ValidatorsRemoved.Inc()
}

func (s *Sink) SubmitError() {
	KeeperSubmitErrors.Inc()
}

func (s *Sink) SubmitRetry() {
	KeeperSubmitRetries.Inc()
}
