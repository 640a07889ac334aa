package limiter

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already
	// ran or is running; callers must not rely on it for correctness.
	Stop() bool
}

// Clock is the time source and timer facility a limiter runs on.
//
// Now must be monotonic for the lifetime of a limiter. AfterFunc runs f once
// after d; it may refuse to schedule, in which case the error is surfaced to
// the caller of Observe.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) (Timer, error)
}

// RealClock is backed by the runtime clock and timers.
var RealClock Clock = realClock{}

type realClock struct{}

// Now returns time.Now, which carries a monotonic reading.
func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) (Timer, error) {
	return time.AfterFunc(d, f), nil
}
