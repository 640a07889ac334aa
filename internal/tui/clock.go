package tui

import (
	"errors"
	"sync"
	"time"

	"github.com/billie-coop/settle/internal/limiter"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// ErrHostClosed is returned when a timer is requested before the program is
// attached or after it has shut down.
var ErrHostClosed = errors.New("tui host closed")

// fireMsg carries a limiter timer callback onto the program's update loop.
type fireMsg struct {
	fn func()
}

// Clock is a limiter.Clock whose timers fire on the Bubble Tea update loop.
// Callbacks are posted into the program and run from Model.Update, so the
// limiters never race with rendering.
type Clock struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	closed bool
}

var _ limiter.Clock = (*Clock)(nil)

// NewClock creates a detached clock. Call Attach once the program exists.
func NewClock() *Clock {
	return &Clock{}
}

// Attach routes timer callbacks into p.
func (c *Clock) Attach(p *tea.Program) {
	c.attach(p.Send)
}

func (c *Clock) attach(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

// Close makes every later AfterFunc fail with ErrHostClosed.
func (c *Clock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.send = nil
}

// Now returns the monotonic wall time.
func (c *Clock) Now() time.Time {
	return time.Now()
}

// AfterFunc posts f to the program after d.
func (c *Clock) AfterFunc(d time.Duration, f func()) (limiter.Timer, error) {
	c.mu.Lock()
	send := c.send
	closed := c.closed
	c.mu.Unlock()

	if closed || send == nil {
		return nil, ErrHostClosed
	}
	return time.AfterFunc(d, func() {
		send(fireMsg{fn: f})
	}), nil
}
