package experiment

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/retry-sim/sim"
)

// DefaultTrials is the number of top-level requests issued per combination.
const DefaultTrials = 10_000

// Config is the experiment definition, loaded from YAML via LoadConfig(path).
// The six sweep fields are required; the remaining sections are optional.
type Config struct {
	CallDepths      []int               `yaml:"call_depths"`
	FailureRates    []float64           `yaml:"failure_rates"`
	MaxRetryValues  []int               `yaml:"max_retry_values"`
	RetryStrategies []sim.RetryStrategy `yaml:"retry_strategies"`
	BackoffBases    []float64           `yaml:"backoff_bases"`
	FailureType     sim.FailureType     `yaml:"failure_type"`

	Trials   *int             `yaml:"trials,omitempty"` // nil = DefaultTrials
	Seed     *int64           `yaml:"seed,omitempty"`
	Recovery sim.RecoverySpec `yaml:"recovery,omitempty"`
	Latency  sim.LatencySpec  `yaml:"latency,omitempty"`
}

// LoadConfig reads and parses a YAML experiment configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sim.ConfigurationError{Reason: "reading experiment config", Err: err}
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML experiment configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, &sim.ConfigurationError{Reason: "parsing experiment config", Err: err}
	}
	return &cfg, nil
}

// TrialCount returns the configured trial count or DefaultTrials.
func (c *Config) TrialCount() int {
	if c.Trials != nil {
		return *c.Trials
	}
	return DefaultTrials
}

// Validate checks required fields (ConfigurationError) and parameter
// domains (InvalidParameterError). It must pass before any trial runs.
func (c *Config) Validate() error {
	required := []struct {
		field string
		empty bool
	}{
		{"call_depths", len(c.CallDepths) == 0},
		{"failure_rates", len(c.FailureRates) == 0},
		{"max_retry_values", len(c.MaxRetryValues) == 0},
		{"retry_strategies", len(c.RetryStrategies) == 0},
		{"backoff_bases", len(c.BackoffBases) == 0},
		{"failure_type", c.FailureType == ""},
	}
	for _, r := range required {
		if r.empty {
			return &sim.ConfigurationError{Field: r.field, Reason: "required field missing or empty"}
		}
	}
	if c.Trials != nil && *c.Trials < 1 {
		return &sim.InvalidParameterError{Field: "trials", Value: *c.Trials, Want: "at least 1"}
	}

	for i, d := range c.CallDepths {
		if d < 1 {
			return &sim.InvalidParameterError{Field: fmt.Sprintf("call_depths[%d]", i), Value: d, Want: "at least 1"}
		}
	}
	for i, r := range c.FailureRates {
		if math.IsNaN(r) || r < 0 || r > 1 {
			return &sim.InvalidParameterError{Field: fmt.Sprintf("failure_rates[%d]", i), Value: r, Want: "in [0, 1]"}
		}
	}
	for i, m := range c.MaxRetryValues {
		if m < 0 {
			return &sim.InvalidParameterError{Field: fmt.Sprintf("max_retry_values[%d]", i), Value: m, Want: "non-negative"}
		}
	}
	for i, s := range c.RetryStrategies {
		if !sim.ValidRetryStrategies[s] {
			return &sim.InvalidParameterError{Field: fmt.Sprintf("retry_strategies[%d]", i), Value: s, Want: "one of all, top_only"}
		}
	}
	for i, b := range c.BackoffBases {
		if math.IsNaN(b) || math.IsInf(b, 0) || b < 0 {
			return &sim.InvalidParameterError{Field: fmt.Sprintf("backoff_bases[%d]", i), Value: b, Want: "a finite non-negative number"}
		}
	}
	if !sim.ValidFailureTypes[c.FailureType] {
		return &sim.InvalidParameterError{Field: "failure_type", Value: c.FailureType, Want: "one of all, bottom_only, top_only"}
	}
	if _, err := sim.NewRecoveryCurve(c.Recovery); err != nil {
		return err
	}
	if _, err := sim.NewLatencySampler(c.latencySpec()); err != nil {
		return err
	}
	return nil
}

// latencySpec fills an omitted latency section with the defaults.
func (c *Config) latencySpec() sim.LatencySpec {
	spec := c.Latency
	if spec.MeanMs == 0 {
		spec.MeanMs = sim.DefaultServiceMeanMs
	}
	return spec
}
