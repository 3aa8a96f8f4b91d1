package scoring

import (
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/normalize"
	"github.com/okian/diamond/internal/domain/types"
)

// Role-mismatch breakpoints. These are reproducibility constants; the score is
// deliberately discontinuous at each of them.
const (
	closerTalentThreshold = 75.0
	heavySaves            = 20.0
	heavyLeverage         = 1.5
	lightSaves            = 10.0
	lightLeverage         = 1.2
	heavyUsageMismatch    = 20.0
	lightUsageDiscount    = 30.0
	partialUsageDiscount  = 50.0
	nonCloserMismatch     = 30.0
	defaultLeverage       = 1.0
)

// talentAnchor is one percentile-normalized talent indicator.
type talentAnchor struct {
	key   string
	elite float64
	poor  float64
}

//nolint:gochecknoglobals // fixed anchor table
var talentAnchors = []talentAnchor{
	{key: model.MetricKPct, elite: 33, poor: 18},
	{key: model.MetricSwStrPct, elite: 16, poor: 8},
	{key: model.MetricStuffPlus, elite: 120, poor: 85},
	{key: model.MetricPitchingPlus, elite: 110, poor: 90},
}

// TalentScore averages the percentile scores of the strikeout, whiff and
// two model-based "plus" indicators. A supplied talent_score overrides the
// computed value. Missing indicators score 50; with no evidence at all the
// result is a fallback.
func TalentScore(m model.RawMetrics) types.Value[float64] {
	if v, ok := m.Float(model.MetricTalentScore); ok {
		return types.Computed(normalize.Clamp(normalize.MinScore, normalize.MaxScore, v))
	}

	var sum float64
	seen := 0
	for _, a := range talentAnchors {
		v, ok := m.Float(a.key)
		if !ok {
			sum += normalize.NeutralScore
			continue
		}
		seen++
		sum += normalize.Percentile(v, a.elite, a.poor, true).V
	}
	if seen == 0 {
		return types.Fallback(normalize.NeutralScore, "no talent indicators")
	}
	return types.Computed(sum / float64(len(talentAnchors)))
}

// RoleMismatch scores how far demonstrated talent exceeds the high-leverage
// usage a pitcher has received.
func RoleMismatch(m model.RawMetrics) types.Value[float64] {
	talent := TalentScore(m)
	if talent.Defaulted {
		return types.Fallback(normalize.NeutralScore, talent.Reason)
	}
	saves := m.FloatOr(model.MetricSaves, 0)
	leverage := m.FloatOr(model.MetricLeverageIndex, defaultLeverage)
	return types.Computed(roleMismatch(talent.V, saves, leverage))
}

func roleMismatch(talent, saves, leverage float64) float64 {
	if talent <= closerTalentThreshold {
		return nonCloserMismatch
	}
	var score float64
	switch {
	case saves >= heavySaves || leverage >= heavyLeverage:
		score = heavyUsageMismatch
	case saves < lightSaves && leverage < lightLeverage:
		score = talent - lightUsageDiscount
	default:
		score = talent - partialUsageDiscount
	}
	return normalize.Clamp(normalize.MinScore, normalize.MaxScore, score)
}
