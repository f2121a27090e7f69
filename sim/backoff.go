package sim

import "math"

// MaxBackoffEnvelopeMs caps the jitter envelope so that very large retry
// counts keep latencies finite.
const MaxBackoffEnvelopeMs = 1e12

// BackoffEnvelope returns the upper bound of the jittered delay before
// retry number retry (0-based): baseMs * 2^retry, capped at
// MaxBackoffEnvelopeMs. A zero base always yields zero.
func BackoffEnvelope(baseMs float64, retry int) float64 {
	if baseMs <= 0 {
		return 0
	}
	env := math.Ldexp(baseMs, retry)
	if math.IsInf(env, 1) || env > MaxBackoffEnvelopeMs {
		return MaxBackoffEnvelopeMs
	}
	return env
}

// BackoffDelay draws an exponential backoff delay with full jitter,
// uniform over [0, BackoffEnvelope(baseMs, retry)).
// Expected value is BackoffEnvelope/2, doubling with every retry until the cap.
func BackoffDelay(rng Rand, baseMs float64, retry int) float64 {
	return BackoffEnvelope(baseMs, retry) * rng.Float64()
}
