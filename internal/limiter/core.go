package limiter

import (
	"fmt"
	"sync"
	"time"
)

// core is the state and timer lifecycle shared by both policies.
// mu guards every field except out, which has its own lock.
type core[T any] struct {
	mu        sync.Mutex
	opts      options
	activated bool
	disposed  bool
	current   T
	pending   T
	slot      timerSlot
	stats     Stats
	out       emitter[T]

	// onFire runs under mu after a timer or Flush emission.
	onFire func()
}

func (c *core[T]) init(kind string, opts []Option) {
	c.opts = buildOptions(kind, opts)
}

// OnEmit registers fn to be called with every emitted value, including the
// activation value. Register it before the first Observe.
func (c *core[T]) OnEmit(fn func(T)) {
	c.out.set(fn)
}

// Current returns the last emitted value, or the zero value before the
// first Observe.
func (c *core[T]) Current() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State reports whether an emission is scheduled.
func (c *core[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *core[T]) stateLocked() State {
	switch {
	case c.disposed:
		return Disposed
	case c.slot.armed():
		return Pending
	}
	return Idle
}

// Stats returns a snapshot of the counters.
func (c *core[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Flush emits the scheduled value now and cancels its timer. It reports
// false when nothing was scheduled or the limiter is disposed.
func (c *core[T]) Flush() bool {
	c.mu.Lock()
	if c.disposed || !c.slot.stop() {
		c.mu.Unlock()
		return false
	}
	c.releasePendingLocked()
	c.mu.Unlock()
	c.out.drain()
	return true
}

// Dispose cancels any scheduled emission. No emission happens after Dispose
// returns; an OnEmit call already running on another goroutine may still
// finish. Calling it again does nothing.
func (c *core[T]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	if c.slot.stop() {
		c.stats.Dropped++
	}
	var zero T
	c.pending = zero
	c.out.close()
	c.opts.logger.Debug("disposed")
}

// checkDelay validates delay before any state is touched.
func checkDelay(delay time.Duration) error {
	if delay < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDelay, delay)
	}
	return nil
}

// activateLocked handles the first Observe. It reports false if the
// limiter was already active.
func (c *core[T]) activateLocked(value T) bool {
	if c.activated {
		return false
	}
	c.activated = true
	c.emitLocked(value)
	return true
}

func (c *core[T]) emitLocked(v T) {
	c.current = v
	c.stats.Emitted++
	c.out.push(v)
}

// scheduleLocked replaces the pending value and re-arms the timer for d.
func (c *core[T]) scheduleLocked(value T, d time.Duration) error {
	if c.slot.armed() {
		c.stats.Dropped++
		c.stats.Rescheduled++
	}
	c.pending = value
	if err := c.slot.arm(c.opts.clock, d, c.fire); err != nil {
		var zero T
		c.pending = zero
		c.stats.Dropped++
		c.opts.logger.Warn("schedule failed", "delay", d, "err", err)
		return fmt.Errorf("%w: %w", ErrSchedule, err)
	}
	c.opts.logger.Debug("armed", "delay", d)
	return nil
}

// cancelLocked drops a scheduled value that an immediate emission replaces.
func (c *core[T]) cancelLocked() {
	if c.slot.stop() {
		c.stats.Dropped++
	}
	var zero T
	c.pending = zero
}

func (c *core[T]) releasePendingLocked() {
	v := c.pending
	var zero T
	c.pending = zero
	c.emitLocked(v)
	if c.onFire != nil {
		c.onFire()
	}
}

func (c *core[T]) fire(gen uint64) {
	c.mu.Lock()
	if c.disposed || !c.slot.claim(gen) {
		c.mu.Unlock()
		c.opts.logger.Debug("stale timer ignored", "gen", gen)
		return
	}
	c.releasePendingLocked()
	c.opts.logger.Debug("emitted", "emitted", c.stats.Emitted)
	c.mu.Unlock()
	c.out.drain()
}
