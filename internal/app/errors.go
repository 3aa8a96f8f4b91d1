package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrBackpressure      = errors.New("submission rejected: queue full")
	ErrInvalidSubmission = errors.New("invalid submission")
)
