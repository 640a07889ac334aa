package replay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/billie-coop/settle/internal/fakeclock"
	"github.com/billie-coop/settle/internal/limiter"
)

// Config holds the default delays for a run.
type Config struct {
	Debounce time.Duration
	Throttle time.Duration

	// Until stops the clock at this offset. Zero runs until every pending
	// emission has fired.
	Until  time.Duration
	Logger *slog.Logger
}

// Emission is one value leaving a limiter.
type Emission struct {
	Policy string
	Value  string
	At     time.Duration
}

// Result is the outcome of a run.
type Result struct {
	Emissions []Emission
	Debounce  limiter.Stats
	Throttle  limiter.Stats
	// Pending lists values still scheduled when the run stopped.
	Pending map[string]bool
}

// Final returns the last value each policy emitted.
func (r *Result) Final(policy string) (string, bool) {
	for i := len(r.Emissions) - 1; i >= 0; i-- {
		if r.Emissions[i].Policy == policy {
			return r.Emissions[i].Value, true
		}
	}
	return "", false
}

// Run feeds steps through a fresh debouncer and throttler sharing a manual
// clock.
func Run(steps []Step, cfg Config) (*Result, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyTimeline
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := fakeclock.New()
	opts := []limiter.Option{
		limiter.WithClock(clock),
		limiter.WithLogger(logger),
		limiter.WithName("replay"),
	}
	deb := limiter.NewDebouncer[string](opts...)
	thr := limiter.NewThrottler[string](opts...)
	defer deb.Dispose()
	defer thr.Dispose()

	res := &Result{}
	record := func(policy string) func(string) {
		return func(v string) {
			res.Emissions = append(res.Emissions, Emission{Policy: policy, Value: v, At: clock.Elapsed()})
		}
	}
	deb.OnEmit(record("debounce"))
	thr.OnEmit(record("throttle"))

	var maxDelay time.Duration
	for _, step := range steps {
		if cfg.Until > 0 && step.At > cfg.Until {
			break
		}
		clock.Advance(step.At - clock.Elapsed())

		dd, td := cfg.Debounce, cfg.Throttle
		if step.Override {
			dd, td = step.Delay, step.Delay
		}
		maxDelay = max(maxDelay, dd, td)

		if err := deb.Observe(step.Value, dd); err != nil {
			return nil, fmt.Errorf("debounce %q at %s: %w", step.Value, step.At, err)
		}
		if err := thr.Observe(step.Value, td); err != nil {
			return nil, fmt.Errorf("throttle %q at %s: %w", step.Value, step.At, err)
		}
	}

	end := steps[len(steps)-1].At + maxDelay
	if cfg.Until > 0 {
		end = cfg.Until
	}
	if end >= clock.Elapsed() {
		clock.Advance(end - clock.Elapsed())
	}

	res.Pending = map[string]bool{
		"debounce": deb.State() == limiter.Pending,
		"throttle": thr.State() == limiter.Pending,
	}
	res.Debounce = deb.Stats()
	res.Throttle = thr.Stats()
	return res, nil
}
