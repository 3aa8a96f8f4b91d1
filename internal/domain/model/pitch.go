// Package model contains domain models passed between layers.
package model

import "time"

// Pitch is a single recorded pitch. Fields mirror the per-pitch feature table
// supplied by the data source. Pointer fields are optional measurements.
type Pitch struct {
	GameDate     string     `json:"game_date"` // game identifier, ISO date
	AtBat        int        `json:"at_bat_number"`
	PitchNumber  int        `json:"pitch_number"`
	PitchType    string     `json:"pitch_type"`              // Statcast code, e.g. "FF", "SL"
	ReleaseSpeed *float64   `json:"release_speed,omitempty"` // mph
	SpinAxis     *float64   `json:"spin_axis,omitempty"`     // degrees
	ThrownAt     *time.Time `json:"thrown_at,omitempty"`
}

// Submission is one pitcher's scoring request: full pitch history plus the
// season-level raw metrics computed upstream.
type Submission struct {
	SubmissionID string     // unique id for idempotency
	PitcherID    string     // subject identifier
	Name         string     // display name
	Pitches      []Pitch    // unordered pitch history
	Metrics      RawMetrics // season features keyed by metric name
	ReceivedAt   time.Time
}

// Float64 returns a pointer to v. Handy for optional pitch fields.
func Float64(v float64) *float64 { return &v }
