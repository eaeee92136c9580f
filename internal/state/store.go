package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// offlineThreshold is how many consecutive failed calls mark the device offline.
const offlineThreshold = 2

// Snapshot is a copy of the sync health at a point in time.
type Snapshot struct {
	Calls               uint64
	Failures            uint64
	ConsecutiveFailures int
	LastMethod          string
	LastError           error
	LastSuccess         time.Time
	LastUpdated         time.Time
}

// IsOffline returns true when tcode-player has failed several calls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// Transition reports a change in reachability caused by an Update.
type Transition int

const (
	NoChange Transition = iota
	WentOffline
	CameOnline
)

func (t Transition) String() string {
	switch t {
	case WentOffline:
		return "offline"
	case CameOnline:
		return "online"
	default:
		return "unchanged"
	}
}

// Store coordinates concurrent reads of the health written by the bridge loop.
type Store struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	snapshot Snapshot
}

// NewStore returns a Store that timestamps updates with clock. The zero
// Store uses the wall clock.
func NewStore(clock clockwork.Clock) *Store {
	return &Store{clock: clock}
}

func (s *Store) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

// Update records the outcome of one RPC call. When err is non-nil the last
// success time is kept and the failure streak grows.
func (s *Store) Update(method string, err error) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasOffline := s.snapshot.IsOffline()
	now := s.now()

	s.snapshot.Calls++
	s.snapshot.LastMethod = method
	s.snapshot.LastUpdated = now

	if err != nil {
		s.snapshot.Failures++
		s.snapshot.ConsecutiveFailures++
		s.snapshot.LastError = err
	} else {
		s.snapshot.ConsecutiveFailures = 0
		s.snapshot.LastError = nil
		s.snapshot.LastSuccess = now
	}

	switch isOffline := s.snapshot.IsOffline(); {
	case isOffline && !wasOffline:
		return WentOffline
	case !isOffline && wasOffline:
		return CameOnline
	default:
		return NoChange
	}
}

// Snapshot returns a copy of the current health.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
