package experiment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/retry-sim/sim"
)

// Summary is the aggregate of one combination's trials.
type Summary struct {
	Combination
	sim.Stats
}

// Report is the output of a full sweep.
type Report struct {
	RunID     string
	Seed      int64
	Trials    int
	Recovery  string
	Summaries []Summary
	// FirstLatencies holds the ascending latencies of every trial of the
	// first combination, for the raw and percentile output modes.
	FirstLatencies []float64
}

// Harness drives trials through one chain per combination.
type Harness struct {
	combinations []Combination
	trials       int
	seed         int64
	sampler      sim.LatencySampler
	oracle       *sim.FailureOracle
	curve        sim.RecoveryCurve
}

// NewHarness validates cfg and every combination it enumerates, so that
// no parameter error can surface once trials have started.
func NewHarness(cfg *Config, trials int, seed int64) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if trials < 1 {
		return nil, &sim.InvalidParameterError{Field: "trials", Value: trials, Want: "at least 1"}
	}
	curve, err := sim.NewRecoveryCurve(cfg.Recovery)
	if err != nil {
		return nil, err
	}
	sampler, err := sim.NewLatencySampler(cfg.latencySpec())
	if err != nil {
		return nil, err
	}

	combinations := Enumerate(cfg)
	for _, c := range combinations {
		if _, err := sim.ResolveLayers(c.ChainSpec()); err != nil {
			return nil, fmt.Errorf("combination %d (%s): %w", c.Index, c, err)
		}
	}

	return &Harness{
		combinations: combinations,
		trials:       trials,
		seed:         seed,
		sampler:      sampler,
		oracle:       sim.NewFailureOracle(curve),
		curve:        curve,
	}, nil
}

// Combinations returns the enumerated sweep.
func (h *Harness) Combinations() []Combination {
	return h.combinations
}

// RunCombination builds the chain for c and runs the configured number of
// independent trials through its top node.
func (h *Harness) RunCombination(c Combination, rng *sim.PartitionedRNG) (Summary, []sim.Result, error) {
	chain, err := sim.BuildChain(c.ChainSpec(), h.sampler, h.oracle, rng.Streams())
	if err != nil {
		return Summary{}, nil, fmt.Errorf("combination %d (%s): %w", c.Index, c, err)
	}
	tally := chain.NewTally()
	results := make([]sim.Result, h.trials)
	for i := range results {
		results[i] = chain.Request(tally)
	}
	return Summary{Combination: c, Stats: sim.Aggregate(results, tally)}, results, nil
}

// Run executes every combination in enumeration order.
func (h *Harness) Run() (*Report, error) {
	report := &Report{
		RunID:    uuid.NewString(),
		Seed:     h.seed,
		Trials:   h.trials,
		Recovery: h.curve.Name(),
	}
	root := sim.NewPartitionedRNG(sim.NewSimulationKey(h.seed))

	logrus.Infof("run %s: %d combinations x %d trials, seed=%d, recovery=%s",
		report.RunID, len(h.combinations), h.trials, h.seed, h.curve.Name())

	for _, c := range h.combinations {
		summary, results, err := h.RunCombination(c, root.ForCombination(c.Index))
		if err != nil {
			return nil, err
		}
		if c.Index == 0 {
			report.FirstLatencies = sim.SortedLatencies(results)
		}
		logrus.Debugf("combination %d (%s): avg=%.2fms p99=%.2fms success=%.4f load=%d",
			c.Index, c, summary.AvgLatencyMs, summary.P99LatencyMs, summary.SuccessRate, summary.Load)
		report.Summaries = append(report.Summaries, summary)
	}
	return report, nil
}
