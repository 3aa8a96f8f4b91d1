// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank         int     `json:"rank"`
	PitcherID    string  `json:"pitcher_id"`
	Name         string  `json:"name,omitempty"`
	DiamondScore float64 `json:"diamond_score"`
	Tier         string  `json:"tier,omitempty"`
}

// Ack acknowledges an accepted or duplicate submission.
type Ack struct {
	SubmissionID string `json:"submission_id"`
	PitcherID    string `json:"pitcher_id"`
	Duplicate    bool   `json:"duplicate"`
}

// Value carries a computed result together with a flag telling whether the
// computation fell back to its documented default. Scoring functions return
// a Value instead of an error so one malformed record never aborts a batch.
type Value[T any] struct {
	V T
	// Defaulted is true when V is the neutral fallback rather than a computed result.
	Defaulted bool
	// Reason names the trigger for the fallback, empty when computed.
	Reason string
}

// Computed wraps a value produced from real input.
func Computed[T any](v T) Value[T] {
	return Value[T]{V: v}
}

// Fallback wraps a documented default and the reason it was used.
func Fallback[T any](v T, reason string) Value[T] {
	return Value[T]{V: v, Defaulted: true, Reason: reason}
}

// Or returns the wrapped value, or alt when the value was defaulted.
func (v Value[T]) Or(alt T) T {
	if v.Defaulted {
		return alt
	}
	return v.V
}
