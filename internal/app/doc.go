// Package app is the composition root of tcodebridge.
//
// # Startup
//
// Run performs these steps in order:
//
//  1. Load .env, then the TOML config with environment overrides
//  2. Resolve the tcode-player version (a dev build wins) and build the zap
//     logger; dev builds and --debug log at debug level
//  3. Unless NoLaunch is set: install the binary if missing (failures are
//     logged), kill any running instance, launch it, and poll the version
//     RPC for up to five seconds
//  4. Load device preferences and watch the file for edits
//  5. Open the host player (terminal or libmpv)
//  6. Run the bridge loop alongside the host until the host exits
//
// # Shutdown
//
// When the host exits it emits window-will-close and closes its event
// channel. The bridge dispatches the final close call and returns; the RPC
// client is then given a short grace period to deliver queued calls.
//
// # Other Entry Points
//
// Install and Send back the CLI's install and send commands. Both reuse
// Setup so they read the same config and environment as Run.
package app
