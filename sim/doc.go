// Package sim provides the core Monte Carlo model of retries and backoff in
// a chain of dependent services.
//
// # Reading Guide
//
// Start with these files to understand the model:
//   - chain.go: Service Node request/retry state machine and chain resolution
//   - oracle.go, recovery.go: per-attempt failure draws and retry healing curves
//   - stats.go: aggregation of trial results into summary statistics
//
// # Architecture
//
// A Chain is a slice of per-layer parameters, bottom first; node i depends on
// node i-1. Chains are read-only once built. Per-node load and retry counts
// are accumulated in a Tally owned by the caller, and all randomness comes
// from injected Streams (failure, backoff, latency) so runs are reproducible
// from a single seed via PartitionedRNG.
//
// The parameter sweep, YAML configuration and trial loop live in
// sim/experiment/.
//
// # Key Interfaces
//
//   - Rand: uniform and exponential draws (satisfied by *rand.Rand)
//   - LatencySampler: processing time of one unit of work (Erlang, exponential)
//   - RecoveryCurve: failure-rate scaling for retries (beta, linear)
package sim
