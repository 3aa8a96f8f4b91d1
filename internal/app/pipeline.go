package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/domain/classify"
	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/tiering"
	"github.com/okian/diamond/pkg/metrics"
)

// Pipeline evaluates one submission: classify the arsenal, fold fatigue,
// score and tier. It keeps no per-pitcher state, so workers share it.
type Pipeline struct {
	engine     *fatigue.Engine
	scorer     scoring.Scorer
	thresholds func() tiering.Thresholds
	now        func() time.Time
}

// NewPipeline wires the domain stages. thresholds is read on every call.
func NewPipeline(engine *fatigue.Engine, scorer scoring.Scorer, thresholds func() tiering.Thresholds) *Pipeline {
	return &Pipeline{
		engine:     engine,
		scorer:     scorer,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Evaluate implements worker.Evaluator.
func (p *Pipeline) Evaluate(_ context.Context, sub model.Submission) (repository.Standing, error) { //nolint:gocritic // hugeParam: submissions travel by value
	if strings.TrimSpace(sub.PitcherID) == "" {
		return repository.Standing{}, fmt.Errorf("%w: empty pitcher id", ErrInvalidSubmission)
	}

	m := sub.Metrics.Clone()
	if m == nil {
		m = model.RawMetrics{}
	}

	// An observed gyro+sweeper pairing earns the combo bonus unless the
	// caller already decided.
	if _, set := m[model.MetricGyroSweeperCombo]; !set && len(sub.Pitches) > 0 {
		if classify.Arsenal(sub.Pitches).GyroSweeperCombo {
			m[model.MetricGyroSweeperCombo] = true
		}
	}

	var summary *fatigue.Summary
	start := time.Now()
	fat := p.engine.Analyze(sub.Pitches)
	metrics.RecordFatigueLatency(float64(time.Since(start).Microseconds()) / 1000)
	if !fat.Defaulted {
		summary = &fat.V
	}

	start = time.Now()
	ev := p.scorer.Evaluate(scoring.Input{PitcherID: sub.PitcherID, Metrics: m, Fatigue: summary})
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordEvaluation(ev.DiamondScore)
	for _, sig := range ev.Defaulted {
		metrics.RecordDefaultedSignal(string(sig))
	}

	th := p.thresholds()
	rec := tiering.FromEvaluation(sub.Name, ev, m)
	return repository.Standing{
		Record:       rec,
		Evaluation:   ev,
		Fatigue:      summary,
		Tier:         tiering.TierOf(ev.DiamondScore),
		Archetype:    th.ArchetypeOf(rec),
		SubmissionID: sub.SubmissionID,
		ReceivedAt:   sub.ReceivedAt,
		UpdatedAt:    p.now(),
	}, nil
}
