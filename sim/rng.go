package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible experiment run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical summaries.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemFailure drives the Bernoulli success/failure draws.
	SubsystemFailure = "failure"

	// SubsystemBackoff drives the full-jitter backoff delays.
	SubsystemBackoff = "backoff"

	// SubsystemLatency drives the service work samples and the retry
	// work-reuse factor.
	SubsystemLatency = "latency"
)

// SubsystemCombination returns the partition name for combination N.
func SubsystemCombination(id int) string {
	return fmt.Sprintf("combination_%d", id)
}

// Rand is the randomness capability consumed by the model.
// *rand.Rand satisfies it; tests substitute scripted sources.
type Rand interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// ExpFloat64 returns an exponential draw with rate 1.
	ExpFloat64() float64
}

// Streams bundles the independent random streams a chain draws from.
type Streams struct {
	Failure Rand
	Backoff Rand
	Latency Rand
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// ForCombination derives a child PartitionedRNG for combination id.
// Each combination gets its own key, so the draws of one combination never
// shift the sequence seen by another.
func (p *PartitionedRNG) ForCombination(id int) *PartitionedRNG {
	return NewPartitionedRNG(SimulationKey(int64(p.key) ^ fnv1a64(SubsystemCombination(id))))
}

// Streams returns the failure, backoff and latency streams of this partition.
func (p *PartitionedRNG) Streams() Streams {
	return Streams{
		Failure: p.ForSubsystem(SubsystemFailure),
		Backoff: p.ForSubsystem(SubsystemBackoff),
		Latency: p.ForSubsystem(SubsystemLatency),
	}
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
