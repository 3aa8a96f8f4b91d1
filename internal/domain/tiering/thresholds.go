// Package tiering buckets composite results into tiers, archetypes and
// filter categories. Every function is a pure predicate or sort.
package tiering

// Thresholds holds every cut-off used by the filters. Categories are
// independent conjunctions; a pitcher may fall in several.
type Thresholds struct {
	// Hidden gem: all must hold.
	GemMinDiamond  float64 `koanf:"gem_min_diamond" json:"gem_min_diamond"`
	GemMaxSaves    float64 `koanf:"gem_max_saves" json:"gem_max_saves"`
	GemMaxBustRisk float64 `koanf:"gem_max_bust_risk" json:"gem_max_bust_risk"`
	GemMaxPrice    float64 `koanf:"gem_max_price" json:"gem_max_price"`

	EliteMinDiamond float64 `koanf:"elite_min_diamond" json:"elite_min_diamond"`
	EliteMaxBust    float64 `koanf:"elite_max_bust" json:"elite_max_bust"`

	UpsideMinDiamond float64 `koanf:"upside_min_diamond" json:"upside_min_diamond"`
	UpsideMinBust    float64 `koanf:"upside_min_bust" json:"upside_min_bust"`

	ValueMinValue   float64 `koanf:"value_min_value" json:"value_min_value"`
	ValueMinDiamond float64 `koanf:"value_min_diamond" json:"value_min_diamond"`

	AvoidMaxDiamond float64 `koanf:"avoid_max_diamond" json:"avoid_max_diamond"`
	AvoidMinBust    float64 `koanf:"avoid_min_bust" json:"avoid_min_bust"`

	MismatchMin float64 `koanf:"mismatch_min" json:"mismatch_min"`
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GemMinDiamond:  75,
		GemMaxSaves:    15,
		GemMaxBustRisk: 40,
		GemMaxPrice:    6,

		EliteMinDiamond: 80,
		EliteMaxBust:    30,

		UpsideMinDiamond: 70,
		UpsideMinBust:    50,

		ValueMinValue:   70,
		ValueMinDiamond: 60,

		AvoidMaxDiamond: 50,
		AvoidMinBust:    70,

		MismatchMin: 40,
	}
}
