// Package repository keeps the in-memory scouting board: the latest
// evaluation of every pitcher, ranked by Diamond Score.
package repository

import (
	"context"
	"time"

	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/tiering"
	"github.com/okian/diamond/internal/domain/types"
)

// Standing is everything the board knows about one pitcher.
type Standing struct {
	Record       tiering.Record     `json:"record"`
	Evaluation   scoring.Evaluation `json:"evaluation"`
	Fatigue      *fatigue.Summary   `json:"fatigue,omitempty"`
	Tier         string             `json:"tier"`
	Archetype    string             `json:"archetype"`
	SubmissionID string             `json:"submission_id"`
	// ReceivedAt is when the submission was accepted; it orders re-submissions.
	ReceivedAt time.Time `json:"received_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PitcherID returns the board key.
func (s *Standing) PitcherID() string { return s.Record.PitcherID }

// Board provides read/write access to the ranking state.
type Board interface {
	// Upsert stores the standing, replacing any previous one for the same
	// pitcher unless that one was received later. A standing older than the
	// stored one is dropped. It reports whether the pitcher was new to the board.
	Upsert(ctx context.Context, s Standing) (bool, error)

	// Get returns the stored standing. Returns ErrNotFound if unknown.
	Get(ctx context.Context, pitcherID string) (Standing, error)

	// Rank returns the board row of a pitcher. Returns ErrNotFound if unknown.
	Rank(ctx context.Context, pitcherID string) (types.Entry, error)

	// TopN returns up to n rows ordered by Diamond Score desc, id asc.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// All returns every standing in board order.
	All(ctx context.Context) []Standing

	// Count returns the number of pitchers on the board.
	Count(ctx context.Context) int
}
