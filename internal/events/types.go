// Package events carries limiter emissions and watcher batches to whoever
// renders or logs them.
package events

import (
	"fmt"
	"sync/atomic"
	"time"
)

// EventType identifies the type of event
type EventType string

const (
	DebounceEmitEvent EventType = "debounce.emit"
	ThrottleEmitEvent EventType = "throttle.emit"
	WatcherBatchEvent EventType = "watcher.batch"
	LimiterErrorEvent EventType = "limiter.error"

	wildcard EventType = "*"
)

// Event represents an event in the system
type Event struct {
	Type    EventType
	Payload interface{}
}

// EmitPayload describes one value leaving a limiter.
type EmitPayload struct {
	Source string
	Value  string
	Seq    uint64
	At     time.Time
}

// BatchPayload is a set of changed paths released by the watcher.
type BatchPayload struct {
	Paths []string
}

// ErrorPayload reports a limiter call that failed.
type ErrorPayload struct {
	Source string
	Err    error
}

// EmitHook returns a function suitable for a limiter's OnEmit that publishes
// each value as an EmitPayload. now stamps the event; seq counts from 1.
func EmitHook[T any](b *Broker, eventType EventType, source string, now func() time.Time) func(T) {
	var seq atomic.Uint64
	return func(v T) {
		b.Publish(Event{
			Type: eventType,
			Payload: EmitPayload{
				Source: source,
				Value:  fmt.Sprint(v),
				Seq:    seq.Add(1),
				At:     now(),
			},
		})
	}
}
