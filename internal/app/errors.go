package service

import "errors"

var (
	// ErrInvalidQuery is returned for empty or oversized queries.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotStarted is returned by operations that need the background workers.
	ErrNotStarted = errors.New("service not started")
	// ErrQueueFull is returned when warm-up jobs were rejected by the queue.
	ErrQueueFull = errors.New("warm-up queue full")
)
