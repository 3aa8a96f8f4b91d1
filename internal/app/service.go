// Package service wires the scouting pipeline, the submission queue and the
// board behind the operations the HTTP API needs.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/diamond/internal/adapters/mq/queue"
	"github.com/okian/diamond/internal/adapters/mq/worker"
	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/domain/dedupe"
	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/tiering"
	"github.com/okian/diamond/internal/domain/types"
	"github.com/okian/diamond/pkg/logger"
	"github.com/okian/diamond/pkg/metrics"
)

// Service implements the API dependencies for the scouting board.
type Service struct {
	mu sync.RWMutex

	board   repository.Board
	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	fatigueOpts []fatigue.Option
	weights     map[string]float64
	thresholds  atomic.Pointer[tiering.Thresholds]

	processed atomic.Int64
	started   bool

	logger logger.Logger
}

// New constructs a Service. Components are built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10000,
		dedupeSize:  dedupe.DefaultMaxSize,
	}
	def := tiering.DefaultThresholds()
	s.thresholds.Store(&def)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the board, queue and worker pool. It fails if the signal
// weight overrides are invalid.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	var aggOpts []scoring.Option
	if len(s.weights) > 0 {
		aggOpts = append(aggOpts, scoring.WithWeights(s.weights))
	}
	agg, err := scoring.NewAggregator(aggOpts...)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	s.board = repository.NewTreapBoard()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.queue = q

	pipeline := NewPipeline(fatigue.NewEngine(s.fatigueOpts...), agg, s.Thresholds)
	s.pool = worker.NewPool(s.workerCount, q, pipeline, s.board,
		worker.WithOnProcessed(func(bool) { s.processed.Add(1) }),
	)
	// Workers outlive the start request; Stop ends them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "scouting service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop drains the queue and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	err := s.pool.Shutdown(ctx)
	s.logger.Info(ctx, "scouting service stopped", logger.Int("pitchers", s.board.Count(ctx)))
	return err
}

func (s *Service) running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Submit queues a pitcher submission for scoring. A missing submission id
// is generated; a repeated one is acknowledged without rescoring.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (types.Ack, error) { //nolint:gocritic // hugeParam: submissions travel by value
	if !s.running() {
		return types.Ack{}, ErrNotStarted
	}
	sub.PitcherID = strings.TrimSpace(sub.PitcherID)
	if sub.PitcherID == "" {
		metrics.RecordSubmissionRejected("invalid")
		return types.Ack{}, fmt.Errorf("%w: pitcher_id is required", ErrInvalidSubmission)
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = time.Now()
	}
	res := types.Ack{SubmissionID: sub.SubmissionID, PitcherID: sub.PitcherID}

	if s.deduper.SeenAndRecord(ctx, sub.SubmissionID) {
		metrics.RecordSubmissionDuplicate()
		s.logger.Debug(ctx, "duplicate submission", logger.String("submission_id", sub.SubmissionID))
		res.Duplicate = true
		return res, nil
	}

	if err := s.queue.Enqueue(ctx, sub); err != nil {
		s.deduper.Unrecord(ctx, sub.SubmissionID)
		metrics.RecordSubmissionRejected("queue")
		return types.Ack{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	metrics.RecordSubmissionAccepted()
	return res, nil
}

// TopN returns the best n pitchers.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}
	return s.board.TopN(ctx, n)
}

// Rank returns a pitcher's board row.
func (s *Service) Rank(ctx context.Context, pitcherID string) (types.Entry, error) {
	if !s.running() {
		return types.Entry{}, ErrNotStarted
	}
	return s.board.Rank(ctx, pitcherID)
}

// Evaluation returns the full latest standing of a pitcher.
func (s *Service) Evaluation(ctx context.Context, pitcherID string) (repository.Standing, error) {
	if !s.running() {
		return repository.Standing{}, ErrNotStarted
	}
	return s.board.Get(ctx, pitcherID)
}

func (s *Service) records(ctx context.Context) []tiering.Record {
	all := s.board.All(ctx)
	out := make([]tiering.Record, len(all))
	for i := range all {
		out[i] = all[i].Record
	}
	return out
}

// HiddenGems returns the pitchers passing the current hidden-gem filter.
func (s *Service) HiddenGems(ctx context.Context) ([]tiering.Record, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}
	gems := s.Thresholds().HiddenGems(s.records(ctx))
	metrics.UpdateHiddenGems(len(gems))
	return gems, nil
}

// Categories buckets every pitcher under the current thresholds.
func (s *Service) Categories(ctx context.Context) (map[tiering.Category][]tiering.Record, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}
	return s.Thresholds().Bucketize(s.records(ctx)), nil
}

// Thresholds returns the active tiering thresholds.
func (s *Service) Thresholds() tiering.Thresholds {
	return *s.thresholds.Load()
}

// SetThresholds swaps the tiering thresholds. Stored standings keep their
// scores; filters use the new values from the next call.
func (s *Service) SetThresholds(t tiering.Thresholds) {
	s.thresholds.Store(&t)
	if s.logger != nil {
		s.logger.Info(context.Background(), "tiering thresholds updated",
			logger.Float64("gem_min_diamond", t.GemMinDiamond),
			logger.Float64("gem_max_price", t.GemMaxPrice),
		)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"processed":   s.processed.Load(),
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["pitchers"] = s.board.Count(ctx)
		stats["seenSubmissions"] = s.deduper.Size()
	}
	return stats
}
