package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrQueueFull   = errors.New("submission queue full")
	ErrQueueClosed = errors.New("submission queue closed")
)
