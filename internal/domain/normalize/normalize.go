// Package normalize maps raw metrics of arbitrary range onto bounded scores.
package normalize

import (
	"math"

	"github.com/okian/diamond/internal/domain/types"
)

// Score bounds and anchors.
const (
	MinScore     = 0.0
	MaxScore     = 100.0
	NeutralScore = 50.0
	PoorAnchor   = 10.0
	EliteAnchor  = 95.0
)

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(lo, hi, v float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Linear rescales value from [minVal, maxVal] onto [0, 100] with clipping.
// A missing (NaN) value scores neutral: insufficient evidence counts as average.
func Linear(value, minVal, maxVal float64) types.Value[float64] {
	if math.IsNaN(value) {
		return types.Fallback(NeutralScore, "missing value")
	}
	if !(maxVal > minVal) || math.IsInf(maxVal-minVal, 0) {
		return types.Fallback(NeutralScore, "degenerate range")
	}
	score := (value - minVal) / (maxVal - minVal) * MaxScore
	return types.Computed(Clamp(MinScore, MaxScore, score))
}

// Scale declares how one raw metric maps onto [0, 100].
type Scale struct {
	Min      float64
	Max      float64
	Inverted bool // lower raw values score higher
}

// Apply normalizes v against the scale.
func (s Scale) Apply(v float64) types.Value[float64] {
	res := Linear(v, s.Min, s.Max)
	if s.Inverted && !res.Defaulted {
		res.V = MaxScore - res.V
	}
	return res
}

// Percentile interpolates value between a poor anchor (score 10) and an
// elite anchor (score 95). When higherIsBetter is false the elite threshold
// is the low end. Values beyond an anchor take that anchor's score.
func Percentile(value, elite, poor float64, higherIsBetter bool) types.Value[float64] {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return types.Fallback(NeutralScore, "missing value")
	}
	if elite == poor || math.IsNaN(elite) || math.IsNaN(poor) {
		return types.Fallback(NeutralScore, "degenerate anchors")
	}

	// fraction of the way from poor to elite
	var frac float64
	if higherIsBetter {
		frac = (value - poor) / (elite - poor)
	} else {
		frac = (poor - value) / (poor - elite)
	}
	frac = Clamp(0, 1, frac)
	return types.Computed(PoorAnchor + frac*(EliteAnchor-PoorAnchor))
}
