package sched

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFire[T any](t *testing.T, d *Debouncer[T]) {
	t.Helper()
	select {
	case <-d.C():
		d.Fire()
	case <-time.After(time.Second):
		t.Fatalf("debouncer did not fire")
	}
}

func assertQuiet[T any](t *testing.T, d *Debouncer[T]) {
	t.Helper()
	select {
	case <-d.C():
		t.Fatalf("debouncer fired early")
	default:
	}
}

func TestDebouncer_CoalescesBurstIntoLastArgument(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var got []int
	d := NewDebouncer(clock, 300*time.Millisecond, func(v int) { got = append(got, v) })

	for i := 1; i <= 5; i++ {
		d.Trigger(i)
		clock.Advance(100 * time.Millisecond)
	}
	assertQuiet(t, d)

	// 100ms already elapsed since the last trigger.
	clock.Advance(199 * time.Millisecond)
	assertQuiet(t, d)

	clock.Advance(time.Millisecond)
	waitFire(t, d)

	assert.Equal(t, []int{5}, got)
	assert.False(t, d.Pending())
	assert.Nil(t, d.C())
}

func TestDebouncer_SeparateQuietPeriodsFireSeparately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var got []string
	d := NewDebouncer(clock, 0, func(v string) { got = append(got, v) })

	d.Func()("a")
	clock.Advance(DefaultDelay)
	waitFire(t, d)

	d.Func()("b")
	clock.Advance(DefaultDelay)
	waitFire(t, d)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDebouncer_IdleAndStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	calls := 0
	d := NewDebouncer(clock, time.Second, func(struct{}) { calls++ })

	assert.Nil(t, d.C())
	d.Fire()
	assert.Zero(t, calls)

	d.Trigger(struct{}{})
	require.True(t, d.Pending())
	d.Stop()
	clock.Advance(2 * time.Second)
	d.Fire()

	assert.Zero(t, calls)
	assert.Nil(t, d.C())
}

func TestDebounce_FuncRunsOnceAfterQuietPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	got := make(chan int, 8)
	debounced := Debounce(clock, 300*time.Millisecond, func(v int) { got <- v })

	for i := 1; i <= 4; i++ {
		debounced(i)
		clock.Advance(50 * time.Millisecond)
	}
	clock.Advance(300 * time.Millisecond)

	select {
	case v := <-got:
		assert.Equal(t, 4, v)
	case <-time.After(time.Second):
		t.Fatalf("debounced action never ran")
	}

	select {
	case v := <-got:
		t.Fatalf("unexpected second execution with %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}
