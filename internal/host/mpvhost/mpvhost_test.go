package mpvhost

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentURL(t *testing.T) {
	assert.Equal(t, "", documentURL(""))
	assert.Equal(t, "file:///tmp/my%20clip.mp4", documentURL("/tmp/my clip.mp4"))
	assert.Equal(t, "https://example.com/v.mp4", documentURL("https://example.com/v.mp4"))

	abs, err := filepath.Abs("clip.mp4")
	assert.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(abs), documentURL("clip.mp4"))
}
