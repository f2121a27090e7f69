package experiment

import (
	"fmt"

	"github.com/inference-sim/retry-sim/sim"
)

// Combination is one point of the parameter sweep.
type Combination struct {
	Index         int
	CallDepth     int
	FailureRate   float64
	MaxRetries    int
	BackoffBaseMs float64
	RetryStrategy sim.RetryStrategy
	FailureType   sim.FailureType
}

// ChainSpec converts the combination into a chain description.
func (c Combination) ChainSpec() sim.ChainSpec {
	return sim.ChainSpec{
		Depth:         c.CallDepth,
		FailureRate:   c.FailureRate,
		MaxRetries:    c.MaxRetries,
		BackoffBaseMs: c.BackoffBaseMs,
		RetryStrategy: c.RetryStrategy,
		FailureType:   c.FailureType,
	}
}

func (c Combination) String() string {
	return fmt.Sprintf("depth=%d failure_rate=%g max_retries=%d backoff_base=%gms strategy=%s",
		c.CallDepth, c.FailureRate, c.MaxRetries, c.BackoffBaseMs, c.RetryStrategy)
}

// Enumerate returns the cross-product of the configured sweep, ordered by
// call depth, failure rate, max retries, backoff base, then retry strategy.
// With max_retries = 0 the strategy and backoff dimensions collapse into a
// single {none, 0} entry.
func Enumerate(cfg *Config) []Combination {
	var out []Combination
	add := func(c Combination) {
		c.Index = len(out)
		c.FailureType = cfg.FailureType
		out = append(out, c)
	}
	for _, depth := range cfg.CallDepths {
		for _, rate := range cfg.FailureRates {
			for _, maxRetries := range cfg.MaxRetryValues {
				if maxRetries == 0 {
					add(Combination{CallDepth: depth, FailureRate: rate, RetryStrategy: sim.RetryNone})
					continue
				}
				for _, base := range cfg.BackoffBases {
					for _, strategy := range cfg.RetryStrategies {
						add(Combination{
							CallDepth:     depth,
							FailureRate:   rate,
							MaxRetries:    maxRetries,
							BackoffBaseMs: base,
							RetryStrategy: strategy,
						})
					}
				}
			}
		}
	}
	return out
}
