// Package scoring combines normalized sub-signals into the Diamond Score and
// derives the role-mismatch and value scores from it.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/normalize"
	"github.com/okian/diamond/internal/domain/types"
)

// Default aggregator configuration constants.
const (
	defaultComboBonus = 10.0
)

// Input abstracts what the aggregator needs for one pitcher.
type Input struct {
	PitcherID string
	Metrics   model.RawMetrics
	// Fatigue is the durability summary, nil when no pitch data was analyzed.
	Fatigue *fatigue.Summary
}

// Component is one signal's contribution to the Diamond Score.
type Component struct {
	Raw          float64 `json:"raw"`
	Normalized   float64 `json:"normalized"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Defaulted    bool    `json:"defaulted"`
}

// MarshalJSON omits the raw value of a defaulted signal, which is NaN.
func (c Component) MarshalJSON() ([]byte, error) {
	type alias Component
	out := struct {
		alias
		Raw *float64 `json:"raw,omitempty"`
	}{alias: alias(c)}
	if !math.IsNaN(c.Raw) && !math.IsInf(c.Raw, 0) {
		out.Raw = &c.Raw
	}
	return json.Marshal(out)
}

// Evaluation is the composite result for one pitcher. Every score is in [0,100].
type Evaluation struct {
	PitcherID     string               `json:"pitcher_id"`
	DiamondScore  float64              `json:"diamond_score"`
	RoleMismatch  float64              `json:"role_mismatch_score"`
	ValueScore    float64              `json:"value_score"`
	TalentScore   float64              `json:"talent_score"`
	TrueTalent    float64              `json:"true_talent"`
	ExpectedPrice float64              `json:"expected_price"`
	BustRisk      float64              `json:"bust_risk"`
	Components    map[Signal]Component `json:"components"`
	Defaulted     []Signal             `json:"defaulted,omitempty"`
}

// Scorer computes an Evaluation from an input.
type Scorer interface {
	Evaluate(in Input) Evaluation
}

// Aggregator implements Scorer with a declarative weight table folded by
// one generic loop. It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	signals         []SignalSpec
	weightOverrides map[string]float64
	comboBonus      float64
}

// NewAggregator creates an aggregator with the default weight table and
// options applied. It fails if the resulting weights do not sum to 1.
func NewAggregator(opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		signals:    DefaultSignals(),
		comboBonus: defaultComboBonus,
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	if len(a.weightOverrides) > 0 {
		specs, err := applyWeights(a.signals, a.weightOverrides)
		if err != nil {
			return nil, err
		}
		a.signals = specs
	}
	if err := ValidateWeights(a.signals); err != nil {
		return nil, fmt.Errorf("new aggregator: %w", err)
	}
	return a, nil
}

// Signals returns a copy of the active weight table.
func (a *Aggregator) Signals() []SignalSpec {
	out := make([]SignalSpec, len(a.signals))
	copy(out, a.signals)
	return out
}

// Evaluate computes the Diamond Score, role mismatch and value score.
// Missing signals score neutral; it never fails on partial data.
func (a *Aggregator) Evaluate(in Input) Evaluation {
	m := in.Metrics
	if m == nil {
		m = model.RawMetrics{}
	}

	ev := Evaluation{
		PitcherID:  in.PitcherID,
		Components: make(map[Signal]Component, len(a.signals)),
	}

	role := RoleMismatch(m)
	ev.RoleMismatch = role.V
	ev.TalentScore = TalentScore(m).Or(normalize.NeutralScore)

	// Centered on neutral: an all-default table lands exactly on 50.
	diamond := normalize.NeutralScore
	for _, spec := range a.signals {
		raw, defaulted := a.rawSignal(spec, m, role)
		norm := spec.Scale.Apply(raw)
		c := Component{
			Raw:          raw,
			Normalized:   norm.V,
			Weight:       spec.Weight,
			Contribution: spec.Weight * norm.V,
			Defaulted:    defaulted || norm.Defaulted,
		}
		if c.Defaulted {
			ev.Defaulted = append(ev.Defaulted, spec.Signal)
		}
		ev.Components[spec.Signal] = c
		diamond += spec.Weight * (norm.V - normalize.NeutralScore)
	}
	ev.DiamondScore = normalize.Clamp(normalize.MinScore, normalize.MaxScore, diamond)

	ev.BustRisk = bustRisk(m, in.Fatigue)
	ev.TrueTalent = TrueTalent(ev.DiamondScore, ev.BustRisk)
	ev.ExpectedPrice, _ = ExpectedPrice(ev.TrueTalent).Float64()
	ev.ValueScore = ValueScore(ev.DiamondScore, ev.BustRisk, m.FloatOr(model.MetricMarketPrice, math.NaN())).V

	return ev
}

// rawSignal looks up (or derives) the raw value of one signal. Missing
// values come back as NaN so the normalizer scores them neutral.
func (a *Aggregator) rawSignal(spec SignalSpec, m model.RawMetrics, role types.Value[float64]) (float64, bool) {
	if spec.Derived {
		if spec.Signal == SignalRoleMismatch {
			return role.V, role.Defaulted
		}
		return math.NaN(), true
	}

	raw, ok := m.Float(string(spec.Signal))
	if !ok {
		return math.NaN(), true
	}
	if spec.Signal == SignalArsenalSynergy && m.Flag(model.MetricGyroSweeperCombo) {
		raw += a.comboBonus
	}
	return raw, false
}

// bustRisk prefers an explicit bust_risk metric, then the fatigue risk score.
func bustRisk(m model.RawMetrics, fat *fatigue.Summary) float64 {
	if v, ok := m.Float(model.MetricBustRisk); ok {
		return normalize.Clamp(normalize.MinScore, normalize.MaxScore, v)
	}
	if fat != nil {
		return fat.RiskScore
	}
	return normalize.NeutralScore
}
