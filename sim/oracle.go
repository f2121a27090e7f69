package sim

import "math"

// FailureOracle decides whether a single attempt against a node succeeds.
type FailureOracle struct {
	curve RecoveryCurve
}

// NewFailureOracle returns an oracle that heals retries along curve.
func NewFailureOracle(curve RecoveryCurve) *FailureOracle {
	return &FailureOracle{curve: curve}
}

// FailureProbability returns the effective failure probability of an attempt.
// First attempts use failureRate as is; retries scale it by the recovery
// curve at elapsedMs. The result is clamped to [0, 1].
func (o *FailureOracle) FailureProbability(failureRate float64, isRetry bool, elapsedMs float64) float64 {
	p := failureRate
	if isRetry {
		p *= o.curve.Scale(elapsedMs)
	}
	return math.Max(0, math.Min(1, p))
}

// Succeeds draws one Bernoulli trial. A failure probability of 0 always
// succeeds and 1 always fails, since Float64 is in [0, 1).
func (o *FailureOracle) Succeeds(rng Rand, failureRate float64, isRetry bool, elapsedMs float64) bool {
	return rng.Float64() >= o.FailureProbability(failureRate, isRetry, elapsedMs)
}
