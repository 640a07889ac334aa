package limiter

import "time"

// Debouncer emits a value once delay has passed with no newer observation.
//
// The zero value is not usable; create one with NewDebouncer.
type Debouncer[T any] struct {
	core[T]
}

// NewDebouncer returns an inactive Debouncer. The first Observe activates it.
func NewDebouncer[T any](opts ...Option) *Debouncer[T] {
	d := &Debouncer[T]{}
	d.init("debounce", opts)
	return d
}

// Observe records value. The first call emits value immediately. Every later
// call cancels the scheduled emission and schedules value to be emitted
// after delay, even if value equals the previous one. A zero delay still
// emits asynchronously.
//
// Observe after Dispose does nothing and returns nil.
func (d *Debouncer[T]) Observe(value T, delay time.Duration) error {
	if err := checkDelay(delay); err != nil {
		return err
	}

	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return nil
	}
	d.stats.Observed++
	if d.activateLocked(value) {
		d.mu.Unlock()
		d.out.drain()
		return nil
	}
	err := d.scheduleLocked(value, delay)
	d.mu.Unlock()
	return err
}
