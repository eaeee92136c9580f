// Package bridge keeps tcode-player in step with the host player.
//
// Two mechanisms share one goroutine (Loop.Run):
//
//   - Events maps lifecycle notifications to commands. A file-loaded event
//     with a file:// document sends "load"; window-will-close shows
//     "closing" and sends "close".
//   - Reconciler samples host status on a ~60 Hz ticker. Play/pause edges
//     are detected first and sent through 300 ms debouncers, then a changed
//     position sends "seek". A 2 s ticker pushes the full device
//     configuration with "set" on every tick.
//
// Host pause/resume events are not subscribed to; the polled comparison is
// authoritative.
//
// Results come back on one channel and are handled by their Policy: load and
// close failures are shown through the host OSD, everything else is logged
// at debug level and counted in the state.Store.
package bridge
