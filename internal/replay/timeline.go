// Package replay runs a scripted sequence of observations through a
// debouncer and a throttler on a manual clock and records what each emits.
package replay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrEmptyTimeline is returned when a timeline has no steps.
	ErrEmptyTimeline = errors.New("timeline has no steps")
	// ErrUnordered is returned when a step is earlier than the one before it.
	ErrUnordered = errors.New("timeline steps must not go back in time")
)

// Step is one observation: Value is observed At after the start. Delay
// overrides the run's delay for this call when Override is set.
type Step struct {
	Value    string
	At       time.Duration
	Delay    time.Duration
	Override bool
}

// ParseTimeline parses a comma separated list of value@time steps.
// A time is milliseconds or a Go duration; an optional /delay suffix sets
// the delay for that observation only:
//
//	first@0,second@100,third@200/50ms
func ParseTimeline(s string) ([]Step, error) {
	var steps []Step
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		step, err := parseStep(raw)
		if err != nil {
			return nil, err
		}
		if n := len(steps); n > 0 && step.At < steps[n-1].At {
			return nil, fmt.Errorf("%w: %q at %s after %s", ErrUnordered, step.Value, step.At, steps[n-1].At)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, ErrEmptyTimeline
	}
	return steps, nil
}

func parseStep(raw string) (Step, error) {
	at := strings.LastIndex(raw, "@")
	if at < 0 {
		return Step{}, fmt.Errorf("step %q: missing @time", raw)
	}
	step := Step{Value: raw[:at]}
	when := raw[at+1:]

	if slash := strings.Index(when, "/"); slash >= 0 {
		d, err := parseDuration(when[slash+1:])
		if err != nil {
			return Step{}, fmt.Errorf("step %q: bad delay: %w", raw, err)
		}
		step.Delay = d
		step.Override = true
		when = when[:slash]
	}

	d, err := parseDuration(when)
	if err != nil {
		return Step{}, fmt.Errorf("step %q: bad time: %w", raw, err)
	}
	if d < 0 {
		return Step{}, fmt.Errorf("step %q: time must not be negative", raw)
	}
	step.At = d
	return step, nil
}

// parseDuration accepts bare milliseconds or anything time.ParseDuration
// understands.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}
