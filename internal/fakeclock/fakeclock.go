// Package fakeclock provides a manually advanced clock for deterministic tests.
//
// Timers armed on a Clock never fire on their own. Advance moves the clock
// forward and runs every timer whose deadline has been reached, in deadline
// order, on the calling goroutine. Timers armed by a callback during Advance
// fire in the same call if their deadline falls inside the advanced window.
package fakeclock

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/billie-coop/settle/internal/limiter"
)

// ErrInjected is returned by AfterFunc after FailNext.
var ErrInjected = errors.New("fakeclock: injected scheduling failure")

// Clock is a limiter.Clock whose time only moves when Advance is called.
type Clock struct {
	mu       sync.Mutex
	now      time.Time
	seq      uint64
	timers   []*timer
	failNext int
	failErr  error
	stopped  int
}

var _ limiter.Clock = (*Clock)(nil)

// New returns a clock starting at an arbitrary fixed instant.
func New() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Elapsed returns how far the clock has been advanced since New.
func (c *Clock) Elapsed() time.Duration {
	return c.Now().Sub(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

// AfterFunc arms a timer that fires f once the clock reaches now+d.
func (c *Clock) AfterFunc(d time.Duration, f func()) (limiter.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failNext > 0 {
		c.failNext--
		err := c.failErr
		if err == nil {
			err = ErrInjected
		}
		return nil, err
	}

	c.seq++
	t := &timer{
		clock: c,
		when:  c.now.Add(d),
		seq:   c.seq,
		fn:    f,
	}
	c.timers = append(c.timers, t)
	return t, nil
}

// FailNext makes the next n AfterFunc calls fail with err (ErrInjected if nil).
func (c *Clock) FailNext(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = n
	c.failErr = err
}

// Pending returns the number of armed timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Stopped returns how many timers were successfully stopped.
func (c *Clock) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Advance moves the clock forward by d, firing due timers along the way.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		c.mu.Unlock()

		next.fn()
	}
}

// popDue removes and returns the earliest timer due at or before target.
// Ties fire in arming order.
func (c *Clock) popDue(target time.Time) *timer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].when.Equal(c.timers[j].when) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].when.Before(c.timers[j].when)
	})
	first := c.timers[0]
	if first.when.After(target) {
		return nil
	}
	c.timers = c.timers[1:]
	return first
}

type timer struct {
	clock *Clock
	when  time.Time
	seq   uint64
	fn    func()
}

// Stop removes the timer. It reports false if the timer already fired or
// was already stopped.
func (t *timer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			c.stopped++
			return true
		}
	}
	return false
}
