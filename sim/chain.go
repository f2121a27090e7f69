package sim

import (
	"fmt"
	"math"
)

// RetryStrategy selects which layers of a chain retry their dependency.
type RetryStrategy string

const (
	// RetryAll lets every layer retry up to MaxRetries times.
	RetryAll RetryStrategy = "all"
	// RetryTopOnly lets only the outermost layer retry.
	RetryTopOnly RetryStrategy = "top_only"
	// RetryNone disables retries. Synthesized for combinations with
	// MaxRetries = 0.
	RetryNone RetryStrategy = "none"
)

// FailureType selects which layers of a chain can fail on their own.
type FailureType string

const (
	// FailureAll applies the failure rate to every layer.
	FailureAll FailureType = "all"
	// FailureBottomOnly applies it only to the innermost layer.
	FailureBottomOnly FailureType = "bottom_only"
	// FailureTopOnly applies it only to the outermost layer.
	FailureTopOnly FailureType = "top_only"
)

// ValidRetryStrategies is the set of strategies accepted in configuration.
// RetryNone is internal and deliberately absent.
var ValidRetryStrategies = map[RetryStrategy]bool{RetryAll: true, RetryTopOnly: true}

// ValidFailureTypes is the set of recognized failure types.
var ValidFailureTypes = map[FailureType]bool{FailureAll: true, FailureBottomOnly: true, FailureTopOnly: true}

// Result is the outcome of one request against a node.
type Result struct {
	LatencyMs float64
	Success   bool
}

// NodeParams are the per-layer parameters of a Service Node.
type NodeParams struct {
	FailureRate   float64
	MaxRetries    int
	BackoffBaseMs float64
}

// Validate checks that the parameters are within their domains.
func (p NodeParams) Validate(layer int) error {
	prefix := fmt.Sprintf("layer[%d]", layer)
	if math.IsNaN(p.FailureRate) || p.FailureRate < 0 || p.FailureRate > 1 {
		return &InvalidParameterError{Field: prefix + ".failure_rate", Value: p.FailureRate, Want: "in [0, 1]"}
	}
	if p.MaxRetries < 0 {
		return &InvalidParameterError{Field: prefix + ".max_retries", Value: p.MaxRetries, Want: "non-negative"}
	}
	if math.IsNaN(p.BackoffBaseMs) || math.IsInf(p.BackoffBaseMs, 0) || p.BackoffBaseMs < 0 {
		return &InvalidParameterError{Field: prefix + ".backoff_base", Value: p.BackoffBaseMs, Want: "a finite non-negative number"}
	}
	return nil
}

// ChainSpec describes a chain before strategy resolution.
type ChainSpec struct {
	Depth         int
	FailureRate   float64
	MaxRetries    int
	BackoffBaseMs float64
	RetryStrategy RetryStrategy
	FailureType   FailureType
}

// ResolveLayers expands a ChainSpec into per-layer parameters, bottom first.
// Layer 0 has no dependency; layer Depth-1 is the top.
func ResolveLayers(spec ChainSpec) ([]NodeParams, error) {
	if spec.Depth < 1 {
		return nil, &InvalidParameterError{Field: "call_depth", Value: spec.Depth, Want: "at least 1"}
	}
	if spec.RetryStrategy != RetryNone && !ValidRetryStrategies[spec.RetryStrategy] {
		return nil, &InvalidParameterError{Field: "retry_strategy", Value: spec.RetryStrategy, Want: "one of all, top_only, none"}
	}
	if !ValidFailureTypes[spec.FailureType] {
		return nil, &InvalidParameterError{Field: "failure_type", Value: spec.FailureType, Want: "one of all, bottom_only, top_only"}
	}

	top := spec.Depth - 1
	layers := make([]NodeParams, spec.Depth)
	for i := range layers {
		var rate float64
		switch spec.FailureType {
		case FailureAll:
			rate = spec.FailureRate
		case FailureBottomOnly:
			if i == 0 {
				rate = spec.FailureRate
			}
		case FailureTopOnly:
			if i == top {
				rate = spec.FailureRate
			}
		}

		var retries int
		switch spec.RetryStrategy {
		case RetryAll:
			retries = spec.MaxRetries
		case RetryTopOnly:
			if i == top {
				retries = spec.MaxRetries
			}
		}

		layers[i] = NodeParams{FailureRate: rate, MaxRetries: retries, BackoffBaseMs: spec.BackoffBaseMs}
		if err := layers[i].Validate(i); err != nil {
			return nil, err
		}
	}
	return layers, nil
}

// Chain is a linear path of Service Nodes stored bottom first; node i
// depends on node i-1. The structure is read-only after construction and
// may be reused across trials. Per-trial mutable state lives in a Tally.
type Chain struct {
	layers  []NodeParams
	sampler LatencySampler
	oracle  *FailureOracle
	streams Streams
}

// NewChain validates layers and assembles a chain.
func NewChain(layers []NodeParams, sampler LatencySampler, oracle *FailureOracle, streams Streams) (*Chain, error) {
	if len(layers) == 0 {
		return nil, &InvalidParameterError{Field: "call_depth", Value: 0, Want: "at least 1"}
	}
	for i, l := range layers {
		if err := l.Validate(i); err != nil {
			return nil, err
		}
	}
	return &Chain{
		layers:  append([]NodeParams(nil), layers...),
		sampler: sampler,
		oracle:  oracle,
		streams: streams,
	}, nil
}

// BuildChain resolves spec into layers and assembles the chain.
func BuildChain(spec ChainSpec, sampler LatencySampler, oracle *FailureOracle, streams Streams) (*Chain, error) {
	layers, err := ResolveLayers(spec)
	if err != nil {
		return nil, err
	}
	return NewChain(layers, sampler, oracle, streams)
}

// Depth returns the number of nodes in the chain.
func (c *Chain) Depth() int { return len(c.layers) }

// Layer returns the parameters of node i (0 = bottom).
func (c *Chain) Layer(i int) NodeParams { return c.layers[i] }

// NewTally returns an empty accumulator sized for this chain.
func (c *Chain) NewTally() *Tally { return NewTally(len(c.layers)) }

// Request issues one top-level request (first attempt, zero elapsed).
func (c *Chain) Request(t *Tally) Result {
	return c.request(len(c.layers)-1, false, 0, t)
}

// request runs one attempt against node i.
func (c *Chain) request(i int, isRetry bool, elapsedMs float64, t *Tally) Result {
	t.loads[i]++
	node := c.layers[i]
	ok := c.oracle.Succeeds(c.streams.Failure, node.FailureRate, isRetry, elapsedMs)

	if i == 0 {
		return Result{LatencyMs: c.sampler.Sample(c.streams.Latency), Success: ok}
	}

	res := c.request(i-1, false, 0, t)
	retries := 0
	retryLatency := 0.0
	for !res.Success && retries < node.MaxRetries {
		retryLatency += BackoffDelay(c.streams.Backoff, node.BackoffBaseMs, retries)
		res = c.request(i-1, true, retryLatency, t)
		retries++
	}
	t.retries[i] += int64(retries)

	// A retried call may reuse part of the work already done.
	work := c.sampler.Sample(c.streams.Latency)
	if isRetry {
		work *= c.streams.Latency.Float64()
	}

	return Result{
		LatencyMs: res.LatencyMs + retryLatency + work,
		Success:   res.Success && ok,
	}
}
