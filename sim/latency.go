package sim

import (
	"fmt"
	"math"
)

// Latency distribution names accepted by NewLatencySampler.
const (
	LatencyErlang      = "erlang"
	LatencyExponential = "exponential"
)

const (
	// DefaultServiceMeanMs is the mean processing time of one unit of work.
	DefaultServiceMeanMs = 50.0
	// DefaultErlangShape is the number of exponential stages summed per draw.
	DefaultErlangShape = 5
)

// LatencySampler draws the processing time of one unit of "real work".
type LatencySampler interface {
	// Sample returns a non-negative latency in milliseconds.
	Sample(rng Rand) float64
	// Mean returns the distribution mean in milliseconds.
	Mean() float64
	// Variance returns the distribution variance in ms².
	Variance() float64
}

// LatencySpec parameterizes a LatencySampler.
type LatencySpec struct {
	Distribution string  `yaml:"distribution"`
	MeanMs       float64 `yaml:"mean_ms"`
	Shape        int     `yaml:"shape,omitempty"` // erlang only
}

// DefaultLatencySpec returns Erlang-5 with a 50ms mean.
func DefaultLatencySpec() LatencySpec {
	return LatencySpec{Distribution: LatencyErlang, MeanMs: DefaultServiceMeanMs, Shape: DefaultErlangShape}
}

// ErlangSampler sums shape exponential stages of rate shape/mean.
// Mean = mean, variance = mean²/shape.
type ErlangSampler struct {
	shape int
	rate  float64
}

func (s *ErlangSampler) Sample(rng Rand) float64 {
	sum := 0.0
	for i := 0; i < s.shape; i++ {
		sum += rng.ExpFloat64()
	}
	return sum / s.rate
}

func (s *ErlangSampler) Mean() float64 { return float64(s.shape) / s.rate }

func (s *ErlangSampler) Variance() float64 { return float64(s.shape) / (s.rate * s.rate) }

// ExponentialSampler produces a single exponential draw.
// Mean = mean, variance = mean².
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

func (s *ExponentialSampler) Mean() float64 { return s.mean }

func (s *ExponentialSampler) Variance() float64 { return s.mean * s.mean }

// NewLatencySampler creates a LatencySampler from a LatencySpec.
// An empty distribution selects Erlang; a zero shape selects DefaultErlangShape.
func NewLatencySampler(spec LatencySpec) (LatencySampler, error) {
	if math.IsNaN(spec.MeanMs) || math.IsInf(spec.MeanMs, 0) || spec.MeanMs <= 0 {
		return nil, &InvalidParameterError{Field: "latency.mean_ms", Value: spec.MeanMs, Want: "a finite positive number"}
	}
	switch spec.Distribution {
	case "", LatencyErlang:
		shape := spec.Shape
		if shape == 0 {
			shape = DefaultErlangShape
		}
		if shape < 0 {
			return nil, &InvalidParameterError{Field: "latency.shape", Value: spec.Shape, Want: "positive"}
		}
		return &ErlangSampler{shape: shape, rate: float64(shape) / spec.MeanMs}, nil
	case LatencyExponential:
		return &ExponentialSampler{mean: spec.MeanMs}, nil
	default:
		return nil, &InvalidParameterError{
			Field: "latency.distribution",
			Value: spec.Distribution,
			Want:  fmt.Sprintf("one of %q, %q", LatencyErlang, LatencyExponential),
		}
	}
}
