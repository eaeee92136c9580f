// Package sched holds the timer primitives used by the bridge loop. Everything
// runs on an injectable clockwork.Clock so tests can advance virtual time.
package sched

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the debounce window used for play/pause toggles.
const DefaultDelay = 300 * time.Millisecond

// Debouncer collapses bursts of Trigger calls into one trailing Fire that
// uses the most recent argument. It is not safe for concurrent use: it is
// meant to be owned by a single event loop that selects on C.
type Debouncer[T any] struct {
	clock  clockwork.Clock
	delay  time.Duration
	action func(T)

	timer   clockwork.Timer
	pending T
	armed   bool
}

// NewDebouncer returns an idle Debouncer. A non-positive delay uses DefaultDelay.
func NewDebouncer[T any](clock clockwork.Clock, delay time.Duration, action func(T)) *Debouncer[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{clock: clock, delay: delay, action: action}
}

// Trigger cancels any pending execution and schedules a new one delay from now.
func (d *Debouncer[T]) Trigger(arg T) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = arg
	d.armed = true
	d.timer = d.clock.NewTimer(d.delay)
}

// Func returns Trigger as a plain function value.
func (d *Debouncer[T]) Func() func(T) {
	return d.Trigger
}

// C is the channel the owner selects on. It is nil while idle, which blocks
// forever in a select.
func (d *Debouncer[T]) C() <-chan time.Time {
	if !d.armed {
		return nil
	}
	return d.timer.Chan()
}

// Fire runs the action once with the latest argument and returns to idle.
// It does nothing when no execution is pending.
func (d *Debouncer[T]) Fire() {
	if !d.armed {
		return
	}
	arg := d.pending
	d.reset()
	d.action(arg)
}

// Pending reports whether an execution is scheduled.
func (d *Debouncer[T]) Pending() bool {
	return d.armed
}

// Stop drops any pending execution.
func (d *Debouncer[T]) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.reset()
}

func (d *Debouncer[T]) reset() {
	var zero T
	d.pending = zero
	d.armed = false
	d.timer = nil
}

// Debounce wraps action for callers without an event loop. The returned
// function is safe for concurrent use; action runs on the clock's timer
// goroutine.
func Debounce[T any](clock clockwork.Clock, delay time.Duration, action func(T)) func(T) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	var (
		mu    sync.Mutex
		timer clockwork.Timer
		gen   uint64
	)
	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		gen++
		mine := gen
		timer = clock.AfterFunc(delay, func() {
			mu.Lock()
			current := mine == gen
			mu.Unlock()
			if current {
				action(arg)
			}
		})
	}
}
