// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"
)

// PercentilePoint pairs a percentile rank with the latency at that rank.
type PercentilePoint struct {
	Percentile int
	LatencyMs  float64
}

// NearestRankIndex returns the index of the p-th percentile (0..100) in an
// ascending slice of length n: ceil(p * n / 100), clamped to n-1.
// No interpolation is performed.
func NearestRankIndex(n int, p float64) int {
	idx := int(math.Ceil(p * float64(n) / 100.0))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// CalculatePercentile returns the p-th nearest-rank percentile of an
// ascending-sorted slice. Returns 0 for empty input.
func CalculatePercentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[NearestRankIndex(len(sorted), p)]
}

// PercentileTable returns the 0th..99th nearest-rank percentiles of an
// ascending-sorted slice followed by the 100th, which is the maximum.
func PercentileTable(sorted []float64) []PercentilePoint {
	if len(sorted) == 0 {
		return nil
	}
	points := make([]PercentilePoint, 0, 101)
	for p := 0; p < 100; p++ {
		points = append(points, PercentilePoint{Percentile: p, LatencyMs: CalculatePercentile(sorted, float64(p))})
	}
	return append(points, PercentilePoint{Percentile: 100, LatencyMs: sorted[len(sorted)-1]})
}

// SortedLatencies returns the latencies of results in ascending order.
func SortedLatencies(results []Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.LatencyMs
	}
	sort.Float64s(out)
	return out
}
