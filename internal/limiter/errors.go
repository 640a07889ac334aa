package limiter

import "errors"

var (
	// ErrNegativeDelay is returned by Observe when delay < 0.
	ErrNegativeDelay = errors.New("limiter: negative delay")

	// ErrSchedule wraps a Clock that refused to arm a timer.
	ErrSchedule = errors.New("limiter: schedule emission")
)
