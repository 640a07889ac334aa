package limiter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-coop/settle/internal/fakeclock"
	"github.com/billie-coop/settle/internal/limiter"
)

const delay = 300 * time.Millisecond

func newDebouncer(t *testing.T) (*limiter.Debouncer[string], *fakeclock.Clock, *[]string) {
	t.Helper()
	clock := fakeclock.New()
	d := limiter.NewDebouncer[string](limiter.WithClock(clock), limiter.WithName(t.Name()))
	var got []string
	d.OnEmit(func(v string) { got = append(got, v) })
	t.Cleanup(d.Dispose)
	return d, clock, &got
}

func TestDebouncer_InitialValueImmediate(t *testing.T) {
	d, clock, got := newDebouncer(t)

	assert.Equal(t, "", d.Current())
	require.NoError(t, d.Observe("initial", delay))

	assert.Equal(t, "initial", d.Current())
	assert.Equal(t, []string{"initial"}, *got)
	assert.Equal(t, limiter.Idle, d.State())
	assert.Zero(t, clock.Pending())
}

func TestDebouncer_EmitsAfterDelay(t *testing.T) {
	d, clock, _ := newDebouncer(t)

	require.NoError(t, d.Observe("first", delay))
	require.NoError(t, d.Observe("second", delay))
	assert.Equal(t, "first", d.Current())
	assert.Equal(t, limiter.Pending, d.State())

	clock.Advance(delay)
	assert.Equal(t, "second", d.Current())
	assert.Equal(t, limiter.Idle, d.State())
}

func TestDebouncer_FullQuietPeriod(t *testing.T) {
	d, clock, got := newDebouncer(t)
	require.NoError(t, d.Observe("v0", delay))
	require.NoError(t, d.Observe("v", delay))

	clock.Advance(delay - time.Millisecond)
	assert.Equal(t, "v0", d.Current())

	clock.Advance(time.Millisecond)
	assert.Equal(t, "v", d.Current())
	assert.Equal(t, []string{"v0", "v"}, *got)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d, clock, got := newDebouncer(t)
	eps := 50 * time.Millisecond
	require.NoError(t, d.Observe("v0", delay))

	require.NoError(t, d.Observe("v1", delay))
	clock.Advance(eps)
	require.NoError(t, d.Observe("v2", delay))
	clock.Advance(eps)
	require.NoError(t, d.Observe("v3", delay))

	clock.Advance(delay - time.Millisecond)
	assert.Equal(t, "v0", d.Current())
	clock.Advance(time.Millisecond)
	assert.Equal(t, "v3", d.Current())
	assert.Equal(t, 2*eps+delay, clock.Elapsed())

	clock.Advance(10 * delay)
	assert.Equal(t, []string{"v0", "v3"}, *got)
	assert.Equal(t, limiter.Stats{Observed: 4, Emitted: 2, Dropped: 2, Rescheduled: 2}, d.Stats())
}

func TestDebouncer_ResetsTimerWhenValueChanges(t *testing.T) {
	d, clock, _ := newDebouncer(t)
	require.NoError(t, d.Observe("first", delay))

	require.NoError(t, d.Observe("second", delay))
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, d.Observe("third", delay))
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "first", d.Current())

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, "third", d.Current())
}

func TestDebouncer_SameValueStillReschedules(t *testing.T) {
	d, clock, got := newDebouncer(t)
	require.NoError(t, d.Observe("a", delay))
	require.NoError(t, d.Observe("b", delay))
	clock.Advance(200 * time.Millisecond)
	require.NoError(t, d.Observe("b", delay))

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, "a", d.Current())
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "b", d.Current())
	assert.Equal(t, []string{"a", "b"}, *got)
}

func TestDebouncer_DelayChangeAppliesToNextSchedule(t *testing.T) {
	d, clock, _ := newDebouncer(t)
	require.NoError(t, d.Observe("hello", 500*time.Millisecond))

	require.NoError(t, d.Observe("world", 100*time.Millisecond))
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "world", d.Current())

	require.NoError(t, d.Observe("slow", 500*time.Millisecond))
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "world", d.Current())
	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, "slow", d.Current())
}

func TestDebouncer_ZeroDelayIsAsynchronous(t *testing.T) {
	d, clock, _ := newDebouncer(t)
	require.NoError(t, d.Observe("a", 0))
	require.NoError(t, d.Observe("b", 0))

	assert.Equal(t, "a", d.Current())
	assert.Equal(t, limiter.Pending, d.State())

	clock.Advance(0)
	assert.Equal(t, "b", d.Current())
}

func TestDebouncer_NegativeDelay(t *testing.T) {
	d, clock, _ := newDebouncer(t)
	require.NoError(t, d.Observe("a", delay))

	err := d.Observe("b", -time.Second)
	require.ErrorIs(t, err, limiter.ErrNegativeDelay)
	assert.Equal(t, limiter.Idle, d.State())
	assert.Zero(t, clock.Pending())
	assert.Equal(t, uint64(1), d.Stats().Observed)
}

func TestDebouncer_ScheduleFailure(t *testing.T) {
	d, clock, got := newDebouncer(t)
	require.NoError(t, d.Observe("a", delay))
	require.NoError(t, d.Observe("b", delay))

	clock.FailNext(1, nil)
	err := d.Observe("c", delay)
	require.ErrorIs(t, err, limiter.ErrSchedule)
	require.ErrorIs(t, err, fakeclock.ErrInjected)
	assert.Equal(t, limiter.Idle, d.State())

	clock.Advance(delay)
	assert.Equal(t, "a", d.Current())

	require.NoError(t, d.Observe("d", delay))
	clock.Advance(delay)
	assert.Equal(t, []string{"a", "d"}, *got)
}

func TestDebouncer_DisposePreventsEmission(t *testing.T) {
	d, clock, got := newDebouncer(t)
	require.NoError(t, d.Observe("first", delay))
	require.NoError(t, d.Observe("second", delay))

	d.Dispose()
	assert.Equal(t, limiter.Disposed, d.State())
	assert.Zero(t, clock.Pending())

	clock.Advance(delay * 2)
	assert.Equal(t, "first", d.Current())
	assert.Equal(t, []string{"first"}, *got)
}

func TestDebouncer_DisposeIdempotent(t *testing.T) {
	d, clock, _ := newDebouncer(t)
	require.NoError(t, d.Observe("first", delay))
	require.NoError(t, d.Observe("second", delay))

	d.Dispose()
	d.Dispose()
	assert.Equal(t, 1, clock.Stopped())
	assert.Equal(t, limiter.Disposed, d.State())
}

func TestDebouncer_ObserveAfterDispose(t *testing.T) {
	d, clock, got := newDebouncer(t)
	require.NoError(t, d.Observe("first", delay))
	d.Dispose()

	require.NoError(t, d.Observe("late", delay))
	assert.False(t, d.Flush())
	assert.Zero(t, clock.Pending())
	assert.Equal(t, "first", d.Current())
	assert.Equal(t, []string{"first"}, *got)
}

func TestDebouncer_Flush(t *testing.T) {
	d, clock, got := newDebouncer(t)
	require.NoError(t, d.Observe("a", delay))
	assert.False(t, d.Flush())

	require.NoError(t, d.Observe("b", delay))
	assert.True(t, d.Flush())
	assert.Equal(t, "b", d.Current())
	assert.Equal(t, limiter.Idle, d.State())

	clock.Advance(delay)
	assert.Equal(t, []string{"a", "b"}, *got)
}
