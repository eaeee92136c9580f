// Package supervisor manages the external tcode-player process.
//
// Binaries live in a data directory as tcode-player-<tag>. A file named
// tcode-player-dev overrides the pinned release and turns on debug logging
// in the child. Launch always terminates running instances of the same name
// first so at most one server listens on the RPC port.
package supervisor
