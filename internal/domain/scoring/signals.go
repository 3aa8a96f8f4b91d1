package scoring

import (
	"fmt"
	"math"

	"github.com/okian/diamond/internal/domain/normalize"
)

// Signal names one sub-score of the Diamond Score. The value doubles as the
// raw metric key.
type Signal string

// Signals combined into the Diamond Score.
const (
	SignalTrajectoryZoneFit    Signal = "trajectory_zone_fit"
	SignalUnexplainedMovement  Signal = "unexplained_movement"
	SignalDeceptionTunneling   Signal = "deception_tunneling"
	SignalArsenalSynergy       Signal = "arsenal_synergy"
	SignalEffectiveVelocity    Signal = "effective_velocity"
	SignalCognitiveLoad        Signal = "cognitive_load"
	SignalRoleMismatch         Signal = "role_mismatch"
	SignalMarketMixOptimality  Signal = "market_mix_optimality"
	SignalReleasePointStrategy Signal = "release_point_strategy"
)

// weightTolerance bounds floating error when checking the weight sum.
const weightTolerance = 1e-9

// SignalSpec declares one row of the weight table.
type SignalSpec struct {
	Signal Signal
	Weight float64
	Scale  normalize.Scale
	// Derived signals are computed from other metrics rather than looked up.
	Derived bool
}

// DefaultSignals returns the Diamond Score weight table.
func DefaultSignals() []SignalSpec {
	return []SignalSpec{
		{Signal: SignalTrajectoryZoneFit, Weight: 0.20, Scale: normalize.Scale{Min: 0, Max: 100}},
		{Signal: SignalUnexplainedMovement, Weight: 0.15, Scale: normalize.Scale{Min: 0, Max: 5}},
		{Signal: SignalDeceptionTunneling, Weight: 0.15, Scale: normalize.Scale{Min: 0, Max: 100}},
		{Signal: SignalArsenalSynergy, Weight: 0.10, Scale: normalize.Scale{Min: 0, Max: 100}},
		{Signal: SignalEffectiveVelocity, Weight: 0.10, Scale: normalize.Scale{Min: 90, Max: 100}},
		{Signal: SignalCognitiveLoad, Weight: 0.10, Scale: normalize.Scale{Min: 0, Max: 100}},
		{Signal: SignalRoleMismatch, Weight: 0.10, Scale: normalize.Scale{Min: 0, Max: 100}, Derived: true},
		{Signal: SignalMarketMixOptimality, Weight: 0.05, Scale: normalize.Scale{Min: 0, Max: 100, Inverted: true}},
		{Signal: SignalReleasePointStrategy, Weight: 0.05, Scale: normalize.Scale{Min: 0, Max: 100}},
	}
}

// WeightSum returns the total weight of a table.
func WeightSum(specs []SignalSpec) float64 {
	var sum float64
	for _, s := range specs {
		sum += s.Weight
	}
	return sum
}

// ValidateWeights checks that weights are non-negative and sum to 1.
func ValidateWeights(specs []SignalSpec) error {
	for _, s := range specs {
		if s.Weight < 0 || math.IsNaN(s.Weight) {
			return fmt.Errorf("%w: %s=%v", ErrNegativeWeight, s.Signal, s.Weight)
		}
	}
	if sum := WeightSum(specs); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: got %.12f", ErrWeightSum, sum)
	}
	return nil
}

// applyWeights returns a copy of specs with the given overrides.
func applyWeights(specs []SignalSpec, weights map[string]float64) ([]SignalSpec, error) {
	out := make([]SignalSpec, len(specs))
	copy(out, specs)
	for name, w := range weights {
		found := false
		for i := range out {
			if string(out[i].Signal) == name {
				out[i].Weight = w
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSignal, name)
		}
	}
	return out, nil
}
