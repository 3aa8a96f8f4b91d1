package fatigue

import (
	"math"
	"sort"

	"github.com/okian/diamond/internal/domain/classify"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/normalize"
	"github.com/okian/diamond/internal/domain/types"
)

// LoadEntry pairs a pitch with its raw load.
type LoadEntry struct {
	Pitch model.Pitch
	Load  float64
}

// Summary is the retained result of one scoring pass.
type Summary struct {
	TotalLoad       float64   `json:"total_load"`
	MeanGameLoad    float64   `json:"mean_game_load"`
	MaxGameLoad     float64   `json:"max_game_load"`
	RiskScore       float64   `json:"risk_score"`
	GamesAnalyzed   int       `json:"games_analyzed"`
	PitchCount      int       `json:"pitch_count"`
	PeakCumulative  float64   `json:"peak_cumulative"`
	FinalCumulative float64   `json:"final_cumulative"`
	PerGame         []float64 `json:"per_game"`
}

// state is the sequential fold state. It lives for one Analyze call only.
type state struct {
	gameID     string
	started    bool
	cumulative float64
	gameTotal  float64
	perGame    []float64
	lastThrown *model.Pitch
}

// Engine computes fatigue metrics. An Engine is immutable after construction
// and safe for concurrent use; every Analyze call owns its own state.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the documented defaults and options applied.
func NewEngine(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine parameters.
func (e *Engine) Config() Config { return e.cfg }

// Load returns the raw load of one pitch. First match wins: high velocity,
// breaking ball, base. Unknown velocity always yields the base load.
func (e *Engine) Load(p model.Pitch) float64 {
	if p.ReleaseSpeed == nil || math.IsNaN(*p.ReleaseSpeed) {
		return e.cfg.BaseLoad
	}
	if *p.ReleaseSpeed > e.cfg.HighVelocityThreshold {
		return e.cfg.HighVelocityLoad
	}
	if classify.IsBreakingBall(p.PitchType) {
		return e.cfg.BreakingBallLoad
	}
	return e.cfg.BaseLoad
}

// Loads sorts the history chronologically and returns per-pitch loads.
func (e *Engine) Loads(pitches []model.Pitch) []LoadEntry {
	sorted := Sorted(pitches)
	out := make([]LoadEntry, len(sorted))
	for i := range sorted {
		out[i] = LoadEntry{Pitch: sorted[i], Load: e.Load(sorted[i])}
	}
	return out
}

// Trace returns the cumulative decayed load after each pitch in chronological order.
func (e *Engine) Trace(pitches []model.Pitch) []float64 {
	trace := make([]float64, 0, len(pitches))
	e.fold(Sorted(pitches), func(cumulative float64) {
		trace = append(trace, cumulative)
	})
	return trace
}

// Analyze folds the pitch history into a Summary. An empty history yields
// the zero Summary tagged as a fallback.
func (e *Engine) Analyze(pitches []model.Pitch) types.Value[Summary] {
	if len(pitches) == 0 {
		return types.Fallback(Summary{}, "no pitches")
	}

	sorted := Sorted(pitches)
	var sum Summary
	st := e.fold(sorted, func(cumulative float64) {
		if cumulative > sum.PeakCumulative {
			sum.PeakCumulative = cumulative
		}
	})

	for i := range sorted {
		sum.TotalLoad += e.Load(sorted[i])
	}
	sum.PitchCount = len(sorted)
	sum.FinalCumulative = st.cumulative
	sum.PerGame = st.perGame
	sum.GamesAnalyzed = len(st.perGame)

	if sum.GamesAnalyzed > 0 {
		var total float64
		for _, g := range st.perGame {
			total += g
			sum.MaxGameLoad = math.Max(sum.MaxGameLoad, g)
		}
		sum.MeanGameLoad = total / float64(sum.GamesAnalyzed)
	}
	sum.RiskScore = normalize.Clamp(normalize.MinScore, normalize.MaxScore,
		(sum.MeanGameLoad-e.cfg.RiskBaseline)*e.cfg.RiskScale)

	return types.Computed(sum)
}

// fold walks a sorted history, applying decay within games and a full reset
// between them. observe sees the cumulative load after every pitch.
func (e *Engine) fold(sorted []model.Pitch, observe func(cumulative float64)) state {
	var st state
	for i := range sorted {
		p := &sorted[i]
		if !st.started || p.GameDate != st.gameID {
			if st.started {
				st.perGame = append(st.perGame, st.gameTotal)
			}
			st.started = true
			st.gameID = p.GameDate
			st.cumulative = 0
			st.gameTotal = 0
		} else {
			st.cumulative *= e.decayFactor(st.lastThrown, p)
		}

		load := e.Load(*p)
		st.cumulative += load
		st.gameTotal += load
		st.lastThrown = p
		observe(st.cumulative)
	}
	if st.started {
		st.perGame = append(st.perGame, st.gameTotal)
	}
	return st
}

// decayFactor returns 0.5^(dt/halfLife) for the gap between prev and cur.
func (e *Engine) decayFactor(prev, cur *model.Pitch) float64 {
	dt := e.cfg.PitchInterval
	if e.cfg.UseTimestamps && prev != nil && prev.ThrownAt != nil && cur.ThrownAt != nil {
		if elapsed := cur.ThrownAt.Sub(*prev.ThrownAt).Minutes(); elapsed > 0 {
			dt = elapsed
		}
	}
	if e.cfg.HalfLife <= 0 {
		return 1
	}
	return math.Pow(0.5, dt/e.cfg.HalfLife)
}

// Sorted returns a copy of pitches ordered by game date, at-bat and pitch
// number. Ties keep ingestion order.
func Sorted(pitches []model.Pitch) []model.Pitch {
	out := make([]model.Pitch, len(pitches))
	copy(out, pitches)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GameDate != b.GameDate {
			return a.GameDate < b.GameDate
		}
		if a.AtBat != b.AtBat {
			return a.AtBat < b.AtBat
		}
		return a.PitchNumber < b.PitchNumber
	})
	return out
}
