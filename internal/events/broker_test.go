package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_TypedAndWildcard(t *testing.T) {
	b := NewBroker(4)
	debounced := b.Subscribe(DebounceEmitEvent)
	all := b.Subscribe()

	b.Publish(Event{Type: DebounceEmitEvent, Payload: EmitPayload{Value: "a"}})
	b.Publish(Event{Type: ThrottleEmitEvent, Payload: EmitPayload{Value: "b"}})

	require.Len(t, debounced, 1)
	require.Len(t, all, 2)
	assert.Equal(t, "a", (<-debounced).Payload.(EmitPayload).Value)
	assert.Equal(t, DebounceEmitEvent, (<-all).Type)
	assert.Equal(t, ThrottleEmitEvent, (<-all).Type)
}

func TestBroker_PublishDropsWhenFull(t *testing.T) {
	b := NewBroker(1)
	ch := b.Subscribe(LimiterErrorEvent)

	b.Publish(Event{Type: LimiterErrorEvent, Payload: ErrorPayload{Err: errors.New("one")}})
	b.Publish(Event{Type: LimiterErrorEvent, Payload: ErrorPayload{Err: errors.New("two")}})

	require.Len(t, ch, 1)
	assert.EqualError(t, (<-ch).Payload.(ErrorPayload).Err, "one")
}

func TestBroker_UnsubscribeCloses(t *testing.T) {
	b := NewBroker(1)
	ch := b.Subscribe(DebounceEmitEvent, ThrottleEmitEvent)
	b.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok)
	b.Publish(Event{Type: DebounceEmitEvent})
}

func TestBroker_ClearClosesOnce(t *testing.T) {
	b := NewBroker(1)
	ch := b.Subscribe(DebounceEmitEvent, WatcherBatchEvent)
	b.Clear()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestEmitHook(t *testing.T) {
	b := NewBroker(4)
	ch := b.Subscribe(ThrottleEmitEvent)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	hook := EmitHook[int](b, ThrottleEmitEvent, "throttled", func() time.Time { return at })
	hook(7)
	hook(8)

	first := (<-ch).Payload.(EmitPayload)
	second := (<-ch).Payload.(EmitPayload)
	assert.Equal(t, EmitPayload{Source: "throttled", Value: "7", Seq: 1, At: at}, first)
	assert.Equal(t, uint64(2), second.Seq)
}
