// Package fatigue folds a pitcher's pitch history into a decayed workload
// signal and per-game durability metrics.
package fatigue

// Default engine parameters.
const (
	DefaultHalfLifeMinutes       = 3.0
	DefaultPitchIntervalMinutes  = 0.33 // ~20s between consecutive pitches
	DefaultHighVelocityThreshold = 95.0 // mph
	DefaultHighVelocityLoad      = 1.5
	DefaultBreakingBallLoad      = 1.2
	DefaultBaseLoad              = 1.0
	DefaultRiskBaseline          = 20.0 // per-game load that maps to risk 0
	DefaultRiskScale             = 3.0
)

// Config holds the engine parameters. All of them are explicit so that no
// engine depends on process-wide state.
type Config struct {
	HalfLife              float64 // minutes
	PitchInterval         float64 // minutes, used when timestamps are absent
	HighVelocityThreshold float64
	HighVelocityLoad      float64
	BreakingBallLoad      float64
	BaseLoad              float64
	RiskBaseline          float64
	RiskScale             float64
	// UseTimestamps decays by real elapsed time when both pitches carry one.
	UseTimestamps bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		HalfLife:              DefaultHalfLifeMinutes,
		PitchInterval:         DefaultPitchIntervalMinutes,
		HighVelocityThreshold: DefaultHighVelocityThreshold,
		HighVelocityLoad:      DefaultHighVelocityLoad,
		BreakingBallLoad:      DefaultBreakingBallLoad,
		BaseLoad:              DefaultBaseLoad,
		RiskBaseline:          DefaultRiskBaseline,
		RiskScale:             DefaultRiskScale,
	}
}

// Option applies a configuration option to the Engine.
type Option func(*Config)

// WithHalfLife sets the in-game decay half-life in minutes.
func WithHalfLife(minutes float64) Option {
	return func(c *Config) {
		if minutes > 0 {
			c.HalfLife = minutes
		}
	}
}

// WithPitchInterval sets the assumed minutes between consecutive pitches.
func WithPitchInterval(minutes float64) Option {
	return func(c *Config) {
		if minutes > 0 {
			c.PitchInterval = minutes
		}
	}
}

// WithHighVelocityThreshold sets the velocity above which a pitch carries the high-velocity load.
func WithHighVelocityThreshold(mph float64) Option {
	return func(c *Config) {
		if mph > 0 {
			c.HighVelocityThreshold = mph
		}
	}
}

// WithTimestamps enables decay by real elapsed time between timestamped pitches.
func WithTimestamps(enabled bool) Option {
	return func(c *Config) {
		c.UseTimestamps = enabled
	}
}
