package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Well-known raw metric keys shared by the scoring and tiering layers.
const (
	MetricKPct             = "k_pct"
	MetricSwStrPct         = "swstr_pct"
	MetricStuffPlus        = "stuff_plus"
	MetricPitchingPlus     = "pitching_plus"
	MetricTalentScore      = "talent_score"
	MetricSaves            = "saves"
	MetricLeverageIndex    = "gmli"
	MetricBustRisk         = "bust_risk"
	MetricMarketPrice      = "market_price"
	MetricGyroSweeperCombo = "gyro_sweeper_combo"
)

// RawMetrics maps metric names to raw values. Values are numbers or, for
// flags such as the arsenal combo bonus, booleans. Unknown keys are ignored
// by consumers.
type RawMetrics map[string]any

// Float returns the numeric value stored under key. The second result is
// false when the key is absent, non-numeric, NaN or infinite. Booleans are
// flags, not numbers; read them with Flag.
func (m RawMetrics) Float(key string) (float64, bool) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, false
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOr returns the numeric value under key or def when it is unusable.
func (m RawMetrics) FloatOr(key string, def float64) float64 {
	if v, ok := m.Float(key); ok {
		return v
	}
	return def
}

// Flag reports a boolean metric. Numbers count as true when non-zero.
func (m RawMetrics) Flag(key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	v, ok := m.Float(key)
	return ok && v != 0
}

// Clone returns a shallow copy safe to extend without touching the caller's map.
func (m RawMetrics) Clone() RawMetrics {
	out := make(RawMetrics, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}
