package limiter

import "time"

// timerSlot holds the one timer a limiter may own.
//
// Every arm, stop and claim bumps gen. A callback carries the gen it was
// armed with and must claim it before emitting, so a callback whose Stop
// lost the race finds a newer gen and does nothing.
type timerSlot struct {
	timer Timer
	gen   uint64
}

func (s *timerSlot) armed() bool {
	return s.timer != nil
}

// stop cancels the armed timer, if any, and reports whether one was armed.
func (s *timerSlot) stop() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	return true
}

// arm releases the current timer and schedules fire(gen) after d.
// On error the slot is left empty.
func (s *timerSlot) arm(c Clock, d time.Duration, fire func(gen uint64)) error {
	s.stop()
	s.gen++
	gen := s.gen
	t, err := c.AfterFunc(d, func() { fire(gen) })
	if err != nil {
		return err
	}
	s.timer = t
	return nil
}

// claim takes ownership of a firing callback. It fails for stale callbacks.
func (s *timerSlot) claim(gen uint64) bool {
	if s.timer == nil || gen != s.gen {
		return false
	}
	s.timer = nil
	s.gen++
	return true
}
