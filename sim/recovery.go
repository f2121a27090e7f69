package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Recovery curve names accepted by NewRecoveryCurve.
const (
	RecoveryBeta   = "beta"
	RecoveryLinear = "linear"
)

const (
	// DefaultBetaWindowMs is the elapsed time after which the beta curve
	// considers a transient fault fully healed.
	DefaultBetaWindowMs = 1000.0
	// DefaultLinearRecoveryMs is the full-recovery time of the linear curve.
	DefaultLinearRecoveryMs = 2000.0
)

// RecoveryCurve maps the elapsed time since a node's first attempt to the
// factor applied to its failure rate on a retry. Scale(0) = 1 and the
// result never increases with elapsed time.
type RecoveryCurve interface {
	Scale(elapsedMs float64) float64
	Name() string
}

// RecoverySpec parameterizes a RecoveryCurve.
type RecoverySpec struct {
	Curve string `yaml:"curve"`
	// WindowMs is the full-recovery time; zero selects the curve default.
	WindowMs float64 `yaml:"window_ms,omitempty"`
}

// BetaRecovery scales by Beta_pdf(min(elapsed/window, 1); 1, 5) / 5,
// which is (1-x)^4: 1 at the first attempt, 0 once the window has passed.
type BetaRecovery struct {
	windowMs float64
	dist     distuv.Beta
}

// NewBetaRecovery returns the beta-shape decay over windowMs.
func NewBetaRecovery(windowMs float64) *BetaRecovery {
	return &BetaRecovery{windowMs: windowMs, dist: distuv.Beta{Alpha: 1, Beta: 5}}
}

func (c *BetaRecovery) Scale(elapsedMs float64) float64 {
	x := math.Min(elapsedMs/c.windowMs, 1)
	// Endpoints pinned: log-space pdf evaluation is singular at 0 and 1.
	if x <= 0 {
		return 1
	}
	if x >= 1 {
		return 0
	}
	return c.dist.Prob(x) / c.dist.Beta
}

func (c *BetaRecovery) Name() string { return RecoveryBeta }

// LinearRecovery reduces the failure rate in proportion to elapsed time,
// reaching zero at recoveryMs.
type LinearRecovery struct {
	recoveryMs float64
}

// NewLinearRecovery returns the linear decay over recoveryMs.
func NewLinearRecovery(recoveryMs float64) *LinearRecovery {
	return &LinearRecovery{recoveryMs: recoveryMs}
}

func (c *LinearRecovery) Scale(elapsedMs float64) float64 {
	if elapsedMs <= 0 {
		return 1
	}
	return 1 - math.Min(elapsedMs/c.recoveryMs, 1)
}

func (c *LinearRecovery) Name() string { return RecoveryLinear }

// NewRecoveryCurve creates a RecoveryCurve from a RecoverySpec.
// An empty curve name selects the beta curve.
func NewRecoveryCurve(spec RecoverySpec) (RecoveryCurve, error) {
	if math.IsNaN(spec.WindowMs) || math.IsInf(spec.WindowMs, 0) || spec.WindowMs < 0 {
		return nil, &InvalidParameterError{Field: "recovery.window_ms", Value: spec.WindowMs, Want: "a finite non-negative number"}
	}
	switch spec.Curve {
	case "", RecoveryBeta:
		window := spec.WindowMs
		if window == 0 {
			window = DefaultBetaWindowMs
		}
		return NewBetaRecovery(window), nil
	case RecoveryLinear:
		window := spec.WindowMs
		if window == 0 {
			window = DefaultLinearRecoveryMs
		}
		return NewLinearRecovery(window), nil
	default:
		return nil, &InvalidParameterError{
			Field: "recovery.curve",
			Value: spec.Curve,
			Want:  fmt.Sprintf("one of %q, %q", RecoveryBeta, RecoveryLinear),
		}
	}
}
