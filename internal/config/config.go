// Package config defines service configuration and its loading hooks.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/tiering"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches the logger to JSON output.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	FatigueHalfLifeMin      float64 `koanf:"fatigue_half_life_min"`
	FatiguePitchIntervalMin float64 `koanf:"fatigue_pitch_interval_min"`
	FatigueHighVelocityMPH  float64 `koanf:"fatigue_high_velocity_mph"`
	FatigueUseTimestamps    bool    `koanf:"fatigue_use_timestamps"`

	// SignalWeights overrides entries of the Diamond Score weight table.
	SignalWeights map[string]float64 `koanf:"signal_weights"`

	// Thresholds holds the hidden gem and category cut-offs as flat keys
	// (gem_max_price, elite_min_diamond, mismatch_min, ...).
	tiering.Thresholds `koanf:",squash"`
}

// New creates a Config populated with defaults.
func New() *Config {
	fat := fatigue.DefaultConfig()
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		QueueSize:               10_000,
		WorkerCount:             runtime.NumCPU(),
		DedupeSize:              50_000,
		MaxLeaderboardLimit:     100,
		FatigueHalfLifeMin:      fat.HalfLife,
		FatiguePitchIntervalMin: fat.PitchInterval,
		FatigueHighVelocityMPH:  fat.HighVelocityThreshold,
		Thresholds:              tiering.DefaultThresholds(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FatigueHalfLifeMin <= 0:
		return fmt.Errorf("%w: fatigue_half_life_min must be positive", ErrInvalidConfig)
	case c.FatiguePitchIntervalMin <= 0:
		return fmt.Errorf("%w: fatigue_pitch_interval_min must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if len(c.SignalWeights) > 0 {
		if _, err := scoring.NewAggregator(scoring.WithWeights(c.SignalWeights)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// FatigueOptions converts the fatigue settings into engine options.
func (c *Config) FatigueOptions() []fatigue.Option {
	return []fatigue.Option{
		fatigue.WithHalfLife(c.FatigueHalfLifeMin),
		fatigue.WithPitchInterval(c.FatiguePitchIntervalMin),
		fatigue.WithHighVelocityThreshold(c.FatigueHighVelocityMPH),
		fatigue.WithTimestamps(c.FatigueUseTimestamps),
	}
}
