// Package state tracks the health of the RPC link to tcode-player.
//
// # Overview
//
// The bridge loop records the outcome of every call it dispatches. Most of
// those calls are fire-and-forget and their failures are never shown to the
// user, so the Store is where their effect becomes visible: a failure streak
// marks the device offline, and hosts can render that state.
//
//	Producer (bridge loop):          Consumer (host UI):
//	┌──────────────────────┐        ┌──────────────────────┐
//	│ result := <-results  │        │                      │
//	│ store.Update(m, err) │───────→│ store.Snapshot()     │
//	│ log on Transition    │ (mutex)│ render status line   │
//	└──────────────────────┘        └──────────────────────┘
//
// # Transitions
//
// Update returns a Transition so the loop can log once when the device goes
// offline (two consecutive failures) and once when it answers again, instead
// of logging each of the sixty seek calls per second that fail while
// tcode-player is down.
//
// # Concurrency Model
//
//   - Update(): write lock, called from the bridge loop only
//   - Snapshot(): read lock, called from any goroutine
//
// The zero Store is ready to use.
package state
