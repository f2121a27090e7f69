package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleMean draws n samples and returns their mean and smallest value.
func sampleMean(s LatencySampler, seed int64, n int) (mean, lowest float64) {
	rng := newRandFromSeed(seed)
	lowest = math.Inf(1)
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.Sample(rng)
		sum += v
		lowest = math.Min(lowest, v)
	}
	return sum / float64(n), lowest
}

func TestErlangSampler_MeanMatchesParam(t *testing.T) {
	s, err := NewLatencySampler(DefaultLatencySpec())
	require.NoError(t, err)

	mean, lowest := sampleMean(s, 42, 20000)

	// sd of the sample mean is sqrt(500/20000) ≈ 0.16ms
	assert.InDelta(t, 50.0, mean, 1.0, "erlang mean")
	assert.GreaterOrEqual(t, lowest, 0.0, "latency must be non-negative")
}

func TestErlangSampler_Moments(t *testing.T) {
	s, err := NewLatencySampler(LatencySpec{Distribution: LatencyErlang, MeanMs: 50, Shape: 5})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, s.Mean(), 1e-9)
	assert.InDelta(t, 500.0, s.Variance(), 1e-9)
}

func TestErlangSampler_ConstantDraws(t *testing.T) {
	// GIVEN every exponential stage returns exactly 1
	s, err := NewLatencySampler(DefaultLatencySpec())
	require.NoError(t, err)

	// THEN the draw equals shape / rate = the mean
	assert.InDelta(t, 50.0, s.Sample(constRand{e: 1}), 1e-9)
}

func TestExponentialSampler_MeanMatchesParam(t *testing.T) {
	s, err := NewLatencySampler(LatencySpec{Distribution: LatencyExponential, MeanMs: 50})
	require.NoError(t, err)
	assert.InDelta(t, 2500.0, s.Variance(), 1e-9)

	mean, lowest := sampleMean(s, 42, 20000)

	// sd of the sample mean is 50/sqrt(20000) ≈ 0.35ms
	assert.InDelta(t, 50.0, mean, 2.0, "exponential mean")
	assert.GreaterOrEqual(t, lowest, 0.0)
}

func TestNewLatencySampler_Defaults(t *testing.T) {
	s, err := NewLatencySampler(LatencySpec{MeanMs: 20})
	require.NoError(t, err)
	erlang, ok := s.(*ErlangSampler)
	require.True(t, ok, "empty distribution should select erlang")
	assert.Equal(t, DefaultErlangShape, erlang.shape)
}

func TestNewLatencySampler_InvalidSpec(t *testing.T) {
	tests := []struct {
		name  string
		spec  LatencySpec
		field string
	}{
		{"zero mean", LatencySpec{Distribution: LatencyErlang}, "latency.mean_ms"},
		{"negative mean", LatencySpec{MeanMs: -1}, "latency.mean_ms"},
		{"infinite mean", LatencySpec{MeanMs: math.Inf(1)}, "latency.mean_ms"},
		{"negative shape", LatencySpec{MeanMs: 50, Shape: -2}, "latency.shape"},
		{"unknown distribution", LatencySpec{Distribution: "weibull", MeanMs: 50}, "latency.distribution"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLatencySampler(tt.spec)
			var perr *InvalidParameterError
			require.True(t, errors.As(err, &perr), "want InvalidParameterError, got %v", err)
			assert.Equal(t, tt.field, perr.Field)
		})
	}
}
