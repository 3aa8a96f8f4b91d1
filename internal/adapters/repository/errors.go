package repository

import "errors"

// Sentinel kinds for board errors.
var (
	ErrNotFound       = errors.New("pitcher not found")
	ErrInvalidLimit   = errors.New("invalid leaderboard limit")
	ErrInvalidPitcher = errors.New("pitcher id must not be empty")
)
