package tiering

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
)

// Category is a filter bucket.
type Category string

// Filter buckets.
const (
	CategoryElite          Category = "elite"
	CategoryHighUpsideRisk Category = "high_upside_risk"
	CategoryValuePlay      Category = "value_play"
	CategoryAvoid          Category = "avoid"
	CategoryRoleMismatch   Category = "role_mismatch"
)

// AllCategories lists the buckets in reporting order.
func AllCategories() []Category {
	return []Category{CategoryElite, CategoryHighUpsideRisk, CategoryValuePlay, CategoryAvoid, CategoryRoleMismatch}
}

// Tier cut-offs on the Diamond Score.
const (
	tierS = 85.0
	tierA = 75.0
	tierB = 65.0
	tierC = 50.0
)

// Archetype labels.
const (
	ArchetypePowerArm        = "Power Arm"
	ArchetypeDeceiver        = "Deceiver"
	ArchetypeMovement        = "Movement Artist"
	ArchetypePitchability    = "Pitchability"
	ArchetypeCloserInWaiting = "Closer-in-Waiting"
	ArchetypeBalanced        = "Balanced"
)

// archetypeMargin is how far a component must stand above neutral to define a profile.
const archetypeMargin = 15.0

// Record is the flattened view of one evaluated pitcher used by the filters.
type Record struct {
	PitcherID    string                     `json:"pitcher_id"`
	Name         string                     `json:"name,omitempty"`
	DiamondScore float64                    `json:"diamond_score"`
	RoleMismatch float64                    `json:"role_mismatch_score"`
	ValueScore   float64                    `json:"value_score"`
	BustRisk     float64                    `json:"bust_risk"`
	Saves        float64                    `json:"saves"`
	MarketPrice  float64                    `json:"-"` // NaN when unknown
	Components   map[scoring.Signal]float64 `json:"components,omitempty"`
}

// MarshalJSON reports the market price only when it is known.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	out := struct {
		alias
		MarketPrice *float64 `json:"market_price,omitempty"`
	}{alias: alias(r)}
	if !math.IsNaN(r.MarketPrice) && !math.IsInf(r.MarketPrice, 0) {
		out.MarketPrice = &r.MarketPrice
	}
	return json.Marshal(out)
}

// FromEvaluation flattens an evaluation and the usage/price metrics it was built from.
func FromEvaluation(name string, ev scoring.Evaluation, m model.RawMetrics) Record {
	r := Record{
		PitcherID:    ev.PitcherID,
		Name:         name,
		DiamondScore: ev.DiamondScore,
		RoleMismatch: ev.RoleMismatch,
		ValueScore:   ev.ValueScore,
		BustRisk:     ev.BustRisk,
		Saves:        m.FloatOr(model.MetricSaves, 0),
		MarketPrice:  m.FloatOr(model.MetricMarketPrice, math.NaN()),
		Components:   make(map[scoring.Signal]float64, len(ev.Components)),
	}
	for sig, c := range ev.Components {
		r.Components[sig] = c.Normalized
	}
	return r
}

// IsHiddenGem reports whether the record clears every hidden-gem threshold.
// An unknown price never qualifies.
func (t Thresholds) IsHiddenGem(r Record) bool {
	return r.DiamondScore > t.GemMinDiamond &&
		r.Saves < t.GemMaxSaves &&
		r.BustRisk < t.GemMaxBustRisk &&
		r.MarketPrice < t.GemMaxPrice
}

// HiddenGems returns the records passing the hidden-gem filter, best first.
func (t Thresholds) HiddenGems(records []Record) []Record {
	out := make([]Record, 0)
	for i := range records {
		if t.IsHiddenGem(records[i]) {
			out = append(out, records[i])
		}
	}
	SortByDiamond(out)
	return out
}

// Categorize returns every bucket the record falls into.
func (t Thresholds) Categorize(r Record) []Category {
	var out []Category
	if r.DiamondScore >= t.EliteMinDiamond && r.BustRisk < t.EliteMaxBust {
		out = append(out, CategoryElite)
	}
	if r.DiamondScore >= t.UpsideMinDiamond && r.BustRisk >= t.UpsideMinBust {
		out = append(out, CategoryHighUpsideRisk)
	}
	if r.ValueScore >= t.ValueMinValue && r.DiamondScore >= t.ValueMinDiamond {
		out = append(out, CategoryValuePlay)
	}
	if r.DiamondScore < t.AvoidMaxDiamond || r.BustRisk >= t.AvoidMinBust {
		out = append(out, CategoryAvoid)
	}
	if r.RoleMismatch >= t.MismatchMin {
		out = append(out, CategoryRoleMismatch)
	}
	return out
}

// Bucketize groups records by category. Each list is sorted best first.
func (t Thresholds) Bucketize(records []Record) map[Category][]Record {
	out := make(map[Category][]Record, len(AllCategories()))
	for _, c := range AllCategories() {
		out[c] = []Record{}
	}
	for i := range records {
		for _, c := range t.Categorize(records[i]) {
			out[c] = append(out[c], records[i])
		}
	}
	for c := range out {
		SortByDiamond(out[c])
	}
	return out
}

// TierOf maps a Diamond Score to a letter tier.
func TierOf(diamond float64) string {
	switch {
	case diamond >= tierS:
		return "S"
	case diamond >= tierA:
		return "A"
	case diamond >= tierB:
		return "B"
	case diamond >= tierC:
		return "C"
	default:
		return "D"
	}
}

// ArchetypeOf names the pitcher's profile from the dominant component.
func (t Thresholds) ArchetypeOf(r Record) string {
	if r.RoleMismatch >= t.MismatchMin {
		return ArchetypeCloserInWaiting
	}
	candidates := []struct {
		sig   scoring.Signal
		label string
	}{
		{scoring.SignalEffectiveVelocity, ArchetypePowerArm},
		{scoring.SignalDeceptionTunneling, ArchetypeDeceiver},
		{scoring.SignalUnexplainedMovement, ArchetypeMovement},
		{scoring.SignalCognitiveLoad, ArchetypePitchability},
	}
	best, label := 50.0+archetypeMargin, ArchetypeBalanced
	for _, c := range candidates {
		if v := r.Components[c.sig]; v >= best {
			best, label = v, c.label
		}
	}
	return label
}

// SortByDiamond orders records by Diamond Score descending, then pitcher id ascending.
func SortByDiamond(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DiamondScore != records[j].DiamondScore {
			return records[i].DiamondScore > records[j].DiamondScore
		}
		return records[i].PitcherID < records[j].PitcherID
	})
}
