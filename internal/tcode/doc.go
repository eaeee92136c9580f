// Package tcode provides an XML-RPC client for the tcode-player control process.
//
// # Overview
//
// tcode-player listens on http://localhost:6800/xmlrpc and accepts method
// calls whose parameters are positional strings. Commands that carry options
// flatten them into key/value pairs ("seek", "12.5s"); the server looks a key
// up and reads the parameter that follows it.
//
// # Architecture
//
//   - client.go: transport, send queue and result delivery
//   - types.go: Command, Result, Policy, DeviceConfig and command builders
//
// # Client Usage
//
//	client, err := tcode.NewClient("localhost:6800")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	// Fire and forget
//	client.Go(tcode.Seek(42.5), nil)
//
//	// Wait for a reply
//	res := client.Call(ctx, tcode.Load("/media/clip.mp4"))
//	if res.Err != nil {
//		return res.Err
//	}
//
// # Methods
//
//   - load ["filename", path]: open a file, replies with a summary
//   - play/pause/seek ["seek", "<seconds>s"]: transport control
//   - set [min, v, max, v, offset, "<ms>ms", preferAlt, b, preferSoft, b, preferHard, b]
//   - close []: end the session
//   - version []: server version, used as a readiness probe
//
// # Ordering and Errors
//
// Go never blocks. Calls are queued and sent by one goroutine, so they reach
// the server in dispatch order. There is no retry and, unless WithTimeout is
// used, no timeout. A full queue fails the call with ErrQueueFull instead of
// blocking the caller.
//
// Each Command carries a Policy. The client itself does not act on it; callers
// use it to decide whether a failure is shown to the user or only logged.
package tcode
