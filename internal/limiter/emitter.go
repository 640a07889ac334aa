package limiter

import "sync"

// emitter delivers emissions to the OnEmit hook in the order they were
// pushed, one at a time, without holding the limiter lock.
//
// Whoever finds the queue idle drains it. A push from inside the hook (or
// from another goroutine mid-drain) is picked up by the active drainer.
type emitter[T any] struct {
	mu       sync.Mutex
	fn       func(T)
	queue    []T
	draining bool
}

func (e *emitter[T]) set(fn func(T)) {
	e.mu.Lock()
	e.fn = fn
	e.mu.Unlock()
}

func (e *emitter[T]) push(v T) {
	e.mu.Lock()
	if e.fn != nil {
		e.queue = append(e.queue, v)
	}
	e.mu.Unlock()
}

func (e *emitter[T]) drain() {
	e.mu.Lock()
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true
	for len(e.queue) > 0 && e.fn != nil {
		v, fn := e.queue[0], e.fn
		var zero T
		e.queue[0] = zero
		e.queue = e.queue[1:]
		e.mu.Unlock()
		fn(v)
		e.mu.Lock()
	}
	e.queue = nil
	e.draining = false
	e.mu.Unlock()
}

// close drops queued deliveries and detaches the hook.
func (e *emitter[T]) close() {
	e.mu.Lock()
	e.fn = nil
	e.queue = nil
	e.mu.Unlock()
}
