package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// constRand returns the same uniform and exponential draw forever,
// making chain latencies and outcomes exactly predictable.
type constRand struct {
	u, e float64
}

func (r constRand) Float64() float64    { return r.u }
func (r constRand) ExpFloat64() float64 { return r.e }

// constStreams uses one constRand for every subsystem.
func constStreams(u, e float64) Streams {
	r := constRand{u: u, e: e}
	return Streams{Failure: r, Backoff: r, Latency: r}
}

// seededStreams returns reproducible streams for statistical tests.
func seededStreams(seed int64) Streams {
	return NewPartitionedRNG(NewSimulationKey(seed)).Streams()
}

// newRandFromSeed creates a *rand.Rand with the given seed.
func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// defaultSampler is Erlang-5 with a 50ms mean.
func defaultSampler(t *testing.T) LatencySampler {
	t.Helper()
	s, err := NewLatencySampler(DefaultLatencySpec())
	require.NoError(t, err)
	return s
}

// mustChain builds a chain from spec with the beta recovery curve.
func mustChain(t *testing.T, spec ChainSpec, streams Streams) *Chain {
	t.Helper()
	c, err := BuildChain(spec, defaultSampler(t), NewFailureOracle(NewBetaRecovery(DefaultBetaWindowMs)), streams)
	require.NoError(t, err)
	return c
}

// runTrials issues n top-level requests and returns results and tally.
func runTrials(c *Chain, n int) ([]Result, *Tally) {
	t := c.NewTally()
	results := make([]Result, n)
	for i := range results {
		results[i] = c.Request(t)
	}
	return results, t
}
