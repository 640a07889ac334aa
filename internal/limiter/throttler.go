package limiter

import "time"

// Throttler emits the first value immediately and then at most once per
// delay window. A value observed inside the window is held until the window
// closes; if several arrive, only the last is emitted.
//
// The zero value is not usable; create one with NewThrottler.
type Throttler[T any] struct {
	core[T]
	lastFired time.Time
}

// NewThrottler returns an inactive Throttler. The first Observe activates it.
func NewThrottler[T any](opts ...Option) *Throttler[T] {
	t := &Throttler[T]{}
	t.init("throttle", opts)
	t.onFire = func() {
		t.lastFired = t.opts.clock.Now()
	}
	return t
}

// Observe records value. It is emitted immediately when this is the first
// call or when at least delay has elapsed since the last emission (so a
// zero delay always emits immediately). Otherwise it is scheduled for the
// end of the current window, replacing any value already scheduled.
//
// delay is read on every call and only shapes the window computed by that
// call.
//
// Observe after Dispose does nothing and returns nil.
func (t *Throttler[T]) Observe(value T, delay time.Duration) error {
	if err := checkDelay(delay); err != nil {
		return err
	}

	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return nil
	}
	t.stats.Observed++
	now := t.opts.clock.Now()
	if t.activateLocked(value) {
		t.lastFired = now
		t.mu.Unlock()
		t.out.drain()
		return nil
	}

	elapsed := now.Sub(t.lastFired)
	if elapsed >= delay {
		t.cancelLocked()
		t.lastFired = now
		t.emitLocked(value)
		t.mu.Unlock()
		t.out.drain()
		return nil
	}

	err := t.scheduleLocked(value, delay-elapsed)
	t.mu.Unlock()
	return err
}
