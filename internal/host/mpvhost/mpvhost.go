// Package mpvhost embeds libmpv as the player the bridge follows. It is only
// functional when built with -tags libmpv; otherwise New returns an error.
package mpvhost

import (
	"net/url"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Options configure a Session.
type Options struct {
	// Files are queued for playback in order.
	Files []string
	// Fullscreen starts the video window fullscreen.
	Fullscreen bool
	// Logger receives dropped-event warnings. Nil discards them.
	Logger *zap.Logger
}

const osdMillis = "3000"

// documentURL turns an mpv "path" property into a document URL. Local paths
// become file:// URLs; anything with a scheme is returned unchanged.
func documentURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.Contains(path, "://") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
