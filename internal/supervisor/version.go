package supervisor

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DevTag marks a locally built binary that always wins over the pinned tag.
	DevTag = "dev"
	// DefaultVersion is the pinned release tag.
	DefaultVersion = "0.0.7"

	binaryPrefix = "tcode-player-"
)

// Version is a resolved tcode-player build.
type Version struct {
	Tag      string
	LogLevel string
}

// IsDev reports whether the version is the developer override.
func (v Version) IsDev() bool {
	return v.Tag == DevTag
}

// BinaryName is the file name of this version inside the data directory.
func (v Version) BinaryName() string {
	return BinaryName(v.Tag)
}

// BinaryName returns "tcode-player-<tag>".
func BinaryName(tag string) string {
	return binaryPrefix + tag
}

// ResolveVersion picks the dev build when <dataDir>/tcode-player-dev exists
// and the pinned tag otherwise. An empty pinned tag means DefaultVersion.
func ResolveVersion(dataDir, pinned string) Version {
	if fileExists(filepath.Join(dataDir, BinaryName(DevTag))) {
		return Version{Tag: DevTag, LogLevel: "debug"}
	}
	pinned = strings.TrimSpace(pinned)
	if pinned == "" {
		pinned = DefaultVersion
	}
	return Version{Tag: pinned, LogLevel: "info"}
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
