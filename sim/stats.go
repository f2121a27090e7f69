package sim

import (
	"gonum.org/v1/gonum/stat"
)

// Stats aggregates the trials of one chain.
type Stats struct {
	Trials              int
	AvgLatencyMs        float64
	P50LatencyMs        float64
	P99LatencyMs        float64
	StdDevLatencyMs     float64
	AvgSuccessLatencyMs float64 // 0 when no trial succeeded
	AvgFailureLatencyMs float64 // 0 when no trial failed
	SuccessRate         float64
	// Load is the bottom node's request count including retries.
	Load int64
	// Amplification is Load per trial: traffic multiplication reaching the bottom.
	Amplification float64
	// TopRetriesPerTrial is the mean number of retries issued by the top node.
	TopRetriesPerTrial float64
}

// Aggregate computes Stats from the results of a chain's trials and the
// tally those trials accumulated. Safe for empty results (zero Stats).
func Aggregate(results []Result, t *Tally) Stats {
	s := Stats{Trials: len(results)}
	if t != nil {
		s.Load = t.BottomLoad()
	}
	if len(results) == 0 {
		return s
	}

	sorted := SortedLatencies(results)
	if len(sorted) > 1 {
		s.AvgLatencyMs, s.StdDevLatencyMs = stat.MeanStdDev(sorted, nil)
	} else {
		s.AvgLatencyMs = sorted[0]
	}
	s.P50LatencyMs = CalculatePercentile(sorted, 50)
	s.P99LatencyMs = CalculatePercentile(sorted, 99)

	var ok, failed []float64
	for _, r := range results {
		if r.Success {
			ok = append(ok, r.LatencyMs)
		} else {
			failed = append(failed, r.LatencyMs)
		}
	}
	s.SuccessRate = float64(len(ok)) / float64(len(results))
	if len(ok) > 0 {
		s.AvgSuccessLatencyMs = stat.Mean(ok, nil)
	}
	if len(failed) > 0 {
		s.AvgFailureLatencyMs = stat.Mean(failed, nil)
	}

	n := float64(len(results))
	s.Amplification = float64(s.Load) / n
	if t != nil && len(t.retries) > 0 {
		s.TopRetriesPerTrial = float64(t.Retries(len(t.retries)-1)) / n
	}
	return s
}
