// Package host defines the boundary between the bridge and the media player
// it follows. Concrete players live in subpackages.
package host

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// DeliverTimeout bounds how long a lifecycle event waits for buffer space.
const DeliverTimeout = time.Second

// EventKind enumerates host lifecycle notifications.
type EventKind int

const (
	EventFileLoaded EventKind = iota + 1
	EventWindowWillClose
	// EventPause and EventResume are emitted by hosts that can, but the bridge
	// does not subscribe to them: polled pause state is authoritative.
	EventPause
	EventResume
)

func (k EventKind) String() string {
	switch k {
	case EventFileLoaded:
		return "file-loaded"
	case EventWindowWillClose:
		return "window-will-close"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	default:
		return "unknown"
	}
}

// Lifecycle reports whether the bridge acts on k. Hosts must not drop these.
func (k EventKind) Lifecycle() bool {
	return k == EventFileLoaded || k == EventWindowWillClose
}

// Event is one lifecycle notification.
type Event struct {
	Kind EventKind
}

// Status is the polled playback state. Position is only meaningful when
// HasPosition is true.
type Status struct {
	Position    float64
	HasPosition bool
	Paused      bool
}

// PositionOrZero returns the position, or 0 when none is available.
func (s Status) PositionOrZero() float64 {
	if !s.HasPosition {
		return 0
	}
	return s.Position
}

// Host is what the bridge needs from a player. Status and RecentDocuments
// must return cached values without blocking.
type Host interface {
	// Events delivers lifecycle notifications. Closed when the host exits.
	Events() <-chan Event
	// Status returns the latest playback state.
	Status() Status
	// RecentDocuments lists recently opened document URLs, newest first.
	RecentDocuments() []string
	// OSD shows a transient message to the user.
	OSD(msg string)
}

// Session is a Host that owns its run loop. Run blocks until the player
// exits or ctx is cancelled, and closes the Events channel on return.
type Session interface {
	Host
	Run(ctx context.Context) error
}

// Deliver sends ev on events. Pause and resume are dropped when the buffer is
// full; lifecycle events wait up to DeliverTimeout on clock. It reports
// whether ev was delivered.
func Deliver(clock clockwork.Clock, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	default:
	}
	if !ev.Kind.Lifecycle() {
		return false
	}
	select {
	case events <- ev:
		return true
	case <-clock.After(DeliverTimeout):
		return false
	}
}
