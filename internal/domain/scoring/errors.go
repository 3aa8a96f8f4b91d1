package scoring

import "errors"

// Sentinel errors for aggregator construction.
var (
	ErrWeightSum      = errors.New("signal weights must sum to 1")
	ErrUnknownSignal  = errors.New("unknown signal")
	ErrNegativeWeight = errors.New("signal weight must not be negative")
)
