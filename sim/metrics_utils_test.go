package sim

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneToN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestNearestRankIndex(t *testing.T) {
	tests := []struct {
		n    int
		p    float64
		want int
	}{
		{100, 99, 99},
		{100, 50, 50},
		{100, 0, 0},
		{100, 100, 99},
		{10000, 99, 9900},
		{1, 99, 0},
		{7, 99, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NearestRankIndex(tt.n, tt.p), "n=%d p=%v", tt.n, tt.p)
	}
}

func TestCalculatePercentile_NoInterpolation(t *testing.T) {
	data := oneToN(100)
	assert.Equal(t, 100.0, CalculatePercentile(data, 99))
	assert.Equal(t, 51.0, CalculatePercentile(data, 50))
	assert.Equal(t, 1.0, CalculatePercentile(data, 0))

	// Every percentile is an element of the input.
	small := []float64{1.5, 2.5, 9}
	for p := 0.0; p <= 100; p += 7 {
		assert.Contains(t, small, CalculatePercentile(small, p))
	}
}

func TestCalculatePercentile_Empty(t *testing.T) {
	assert.Equal(t, 0.0, CalculatePercentile(nil, 99))
	assert.Nil(t, PercentileTable(nil))
}

func TestPercentileTable(t *testing.T) {
	data := oneToN(1000)
	table := PercentileTable(data)

	require.Len(t, table, 101)
	assert.Equal(t, PercentilePoint{Percentile: 0, LatencyMs: 1}, table[0])
	assert.Equal(t, PercentilePoint{Percentile: 99, LatencyMs: 991}, table[99])
	assert.Equal(t, PercentilePoint{Percentile: 100, LatencyMs: 1000}, table[100])
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, table[i].LatencyMs, table[i-1].LatencyMs)
	}
}

func TestSortedLatencies(t *testing.T) {
	results := []Result{{LatencyMs: 3}, {LatencyMs: 1, Success: true}, {LatencyMs: 2}}
	assert.Equal(t, []float64{1, 2, 3}, SortedLatencies(results))
	// input order untouched
	assert.Equal(t, 3.0, results[0].LatencyMs)
}

func TestP99AtLeastMean_RightSkewed(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for _, n := range []int{100, 1000, 10000} {
		data := make([]float64, n)
		sum := 0.0
		for i := range data {
			data[i] = rng.ExpFloat64() * 50
			sum += data[i]
		}
		sort.Float64s(data)
		assert.GreaterOrEqual(t, CalculatePercentile(data, 99), sum/float64(n), "n=%d", n)
	}
}
