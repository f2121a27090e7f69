package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/retry-sim/sim"
)

func TestEnumerate_OrderAndCollapse(t *testing.T) {
	cfg, err := ParseConfig([]byte(validYAML))
	require.NoError(t, err)

	combos := Enumerate(cfg)

	// 3 rates x (1 collapsed + 2 bases x 2 strategies)
	require.Len(t, combos, 15)

	want := []Combination{
		{Index: 0, CallDepth: 2, FailureRate: 0.01, MaxRetries: 0, BackoffBaseMs: 0, RetryStrategy: sim.RetryNone},
		{Index: 1, CallDepth: 2, FailureRate: 0.01, MaxRetries: 3, BackoffBaseMs: 10, RetryStrategy: sim.RetryAll},
		{Index: 2, CallDepth: 2, FailureRate: 0.01, MaxRetries: 3, BackoffBaseMs: 10, RetryStrategy: sim.RetryTopOnly},
		{Index: 3, CallDepth: 2, FailureRate: 0.01, MaxRetries: 3, BackoffBaseMs: 100, RetryStrategy: sim.RetryAll},
		{Index: 4, CallDepth: 2, FailureRate: 0.01, MaxRetries: 3, BackoffBaseMs: 100, RetryStrategy: sim.RetryTopOnly},
		{Index: 5, CallDepth: 2, FailureRate: 0.1, MaxRetries: 0, BackoffBaseMs: 0, RetryStrategy: sim.RetryNone},
	}
	for i, w := range want {
		w.FailureType = sim.FailureBottomOnly
		assert.Equal(t, w, combos[i], "combination %d", i)
	}
	for i, c := range combos {
		assert.Equal(t, i, c.Index)
	}
}

func TestEnumerate_OnlyZeroRetries(t *testing.T) {
	cfg := &Config{
		CallDepths:      []int{1, 3},
		FailureRates:    []float64{0.5},
		MaxRetryValues:  []int{0},
		RetryStrategies: []sim.RetryStrategy{sim.RetryAll, sim.RetryTopOnly},
		BackoffBases:    []float64{10, 100, 1000},
		FailureType:     sim.FailureAll,
	}
	combos := Enumerate(cfg)
	require.Len(t, combos, 2)
	for _, c := range combos {
		assert.Equal(t, sim.RetryNone, c.RetryStrategy)
		assert.Equal(t, 0.0, c.BackoffBaseMs)
	}
	assert.Equal(t, 1, combos[0].CallDepth)
	assert.Equal(t, 3, combos[1].CallDepth)
}

func TestCombination_ChainSpec(t *testing.T) {
	c := Combination{CallDepth: 4, FailureRate: 0.2, MaxRetries: 2, BackoffBaseMs: 25, RetryStrategy: sim.RetryTopOnly, FailureType: sim.FailureAll}
	assert.Equal(t, sim.ChainSpec{
		Depth: 4, FailureRate: 0.2, MaxRetries: 2, BackoffBaseMs: 25,
		RetryStrategy: sim.RetryTopOnly, FailureType: sim.FailureAll,
	}, c.ChainSpec())
	assert.Equal(t, "depth=4 failure_rate=0.2 max_retries=2 backoff_base=25ms strategy=top_only", c.String())
}
