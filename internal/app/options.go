package service

import (
	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/tiering"
	"github.com/okian/diamond/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the submission queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFatigueOptions configures the fatigue engine.
func WithFatigueOptions(opts ...fatigue.Option) Option {
	return func(s *Service) {
		s.fatigueOpts = append(s.fatigueOpts, opts...)
	}
}

// WithSignalWeights overrides entries of the Diamond Score weight table.
// The merged table must still sum to 1 or Start fails.
func WithSignalWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.weights = weights
	}
}

// WithThresholds sets the initial tiering thresholds.
func WithThresholds(t tiering.Thresholds) Option {
	return func(s *Service) {
		s.thresholds.Store(&t)
	}
}
