// Package limiter rate-limits a stream of changing values.
//
// # Overview
//
// A host (a UI update loop, a file watcher, an event consumer) calls Observe
// every time the value it tracks changes, and reads the limited value back
// with Current. Two policies are provided:
//
//   - Debouncer: emits a value only after a quiet period with no new
//     observations. N rapid changes collapse into one emission of the last
//     value.
//   - Throttler: emits the first value immediately, then at most once per
//     window. A value observed inside a window is deferred to the window
//     boundary, and only the latest deferred value survives.
//
// The first Observe on either policy is activation: its value is emitted
// synchronously so the host always has something to render.
//
// # Lifecycle
//
// Each instance owns at most one timer. Dispose cancels it and marks the
// instance dead; after Dispose returns no emission happens, even if the
// timer was already firing on another goroutine. Observe after Dispose is a
// silent no-op.
//
// # Time
//
// Limiters read time and arm timers through a Clock. RealClock uses the
// runtime's monotonic clock. Hosts that serialize work on one loop (see
// internal/tui) supply a Clock whose callbacks run on that loop, and tests
// use internal/fakeclock.
//
// # Usage
//
//	search := limiter.NewDebouncer[string](limiter.WithName("search"))
//	search.OnEmit(func(q string) {
//	    runQuery(q)
//	})
//	defer search.Dispose()
//
//	// on every keystroke
//	if err := search.Observe(input.Value(), 300*time.Millisecond); err != nil {
//	    return err
//	}
package limiter
