package bridge

import (
	"github.com/five82/tcodebridge/internal/host"
	"github.com/five82/tcodebridge/internal/tcode"
)

// SyncState is the cursor of what was last pushed to the device.
type SyncState struct {
	LastSyncedPosition float64
	WasPlaying         bool
}

// Edge is a play/pause transition detected on a tick.
type Edge int

const (
	EdgeNone Edge = iota
	EdgePause
	EdgePlay
)

func (e Edge) String() string {
	switch e {
	case EdgePause:
		return "pause"
	case EdgePlay:
		return "play"
	default:
		return "none"
	}
}

// TickResult is what one fast tick decided. Edge is handled before Seek.
type TickResult struct {
	Edge     Edge
	Seek     bool
	Position float64
}

// Reconciler compares polled host status with the sync cursor.
type Reconciler struct {
	state SyncState
}

// NewReconciler starts from the given cursor.
func NewReconciler(initial SyncState) *Reconciler {
	return &Reconciler{state: initial}
}

// State returns the current cursor.
func (r *Reconciler) State() SyncState {
	return r.state
}

// Tick advances the cursor for one sample of host status.
func (r *Reconciler) Tick(st host.Status) TickResult {
	var res TickResult

	switch {
	case r.state.WasPlaying && st.Paused:
		res.Edge = EdgePause
		r.state.WasPlaying = false
	case !r.state.WasPlaying && !st.Paused:
		res.Edge = EdgePlay
		r.state.WasPlaying = true
	}

	if st.HasPosition && st.Position != r.state.LastSyncedPosition {
		res.Seek = true
		res.Position = st.Position
		r.state.LastSyncedPosition = st.Position
	}
	return res
}

// ConfigCommand builds the unconditional periodic refresh.
func ConfigCommand(cfg tcode.DeviceConfig) tcode.Command {
	return tcode.Set(cfg)
}
