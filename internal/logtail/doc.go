// Package logtail reads and formats tcode-player and bridge log files.
//
// # Reading Log Files
//
// Read uses a ring buffer to return the last maxLines of a file in one pass
// with O(maxLines) memory. A non-positive maxLines returns the whole file.
// Missing files yield nil, nil.
//
//	lines, err := logtail.Read("/tmp/tcode-player.log", 200)
//
// # Following
//
// Follow watches the log's directory with fsnotify and emits each complete
// line appended after a starting offset. Size gives the offset for "only new
// lines". Truncated files are re-read from the start.
//
// # Formatting
//
// Both processes write one JSON object per line. Formatter.Line turns a
// record into
//
//	<time> <LEVEL> <message> key=value ...
//
// with the remaining fields sorted by key. zerolog's "message" and zap's
// "msg" are both recognised. With color enabled, the time, level and keys
// are styled with lipgloss; anything that is not a JSON object is returned
// unchanged.
package logtail
