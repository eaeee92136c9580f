package termhost

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tcodebridge/internal/bridge"
	"github.com/five82/tcodebridge/internal/host"
	"github.com/five82/tcodebridge/internal/state"
)

func nextEvent(t *testing.T, p *Player) host.Event {
	t.Helper()
	select {
	case ev, ok := <-p.Events():
		require.True(t, ok, "event channel closed")
		return ev
	default:
		t.Fatalf("no event pending")
		return host.Event{}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayer_OpenPublishesLocalDocument(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock())
	dir := t.TempDir()
	path := filepath.Join(dir, "my video.mp4")

	require.NoError(t, p.Open(path))
	assert.Equal(t, host.EventFileLoaded, nextEvent(t, p).Kind)

	docs := p.RecentDocuments()
	require.NotEmpty(t, docs)
	assert.True(t, strings.HasPrefix(docs[0], "file://"))
	assert.Contains(t, docs[0], "my%20video.mp4")

	got, ok := bridge.LocalPath(docs[0])
	require.True(t, ok)
	assert.Equal(t, path, got)

	st := p.Status()
	assert.True(t, st.HasPosition)
	assert.False(t, st.Paused)
	assert.Zero(t, st.Position)
}

func TestPlayer_PlayheadAdvancesOnlyWhilePlaying(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPlayer(clock)

	assert.False(t, p.Status().HasPosition, "no position before a file loads")

	require.NoError(t, p.Open("/tmp/a.mp4"))
	clock.Advance(2 * time.Second)
	assert.InDelta(t, 2.0, p.Status().Position, 1e-9)

	p.TogglePause()
	assert.Equal(t, host.EventFileLoaded, nextEvent(t, p).Kind)
	assert.Equal(t, host.EventPause, nextEvent(t, p).Kind)
	clock.Advance(5 * time.Second)
	st := p.Status()
	assert.True(t, st.Paused)
	assert.InDelta(t, 2.0, st.Position, 1e-9)

	p.Seek(seekStep)
	assert.InDelta(t, 7.0, p.Status().Position, 1e-9)
	p.Seek(-100)
	assert.Zero(t, p.Status().Position)

	p.TogglePause()
	assert.Equal(t, host.EventResume, nextEvent(t, p).Kind)
	clock.Advance(time.Second)
	assert.InDelta(t, 1.0, p.Status().Position, 1e-9)
}

func TestPlayer_OSDExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPlayer(clock)

	p.OSD("loaded [stroke]")
	assert.Equal(t, "loaded [stroke]", p.Message())
	clock.Advance(osdDuration + time.Millisecond)
	assert.Empty(t, p.Message())
}

func TestPlayer_CloseEmitsOnceAndEndsStream(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock())
	p.Close()
	p.Close()

	ev, ok := <-p.Events()
	require.True(t, ok)
	assert.Equal(t, host.EventWindowWillClose, ev.Kind)
	_, ok = <-p.Events()
	assert.False(t, ok)

	require.NoError(t, p.Open("/tmp/after.mp4"), "opening after close must not panic")
}

func TestModel_Keys(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPlayer(clock)
	require.NoError(t, p.Open("/tmp/a.mp4"))
	nextEvent(t, p)

	var m tea.Model = NewModel(p, nil, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, p.Status().Paused)
	assert.Equal(t, host.EventPause, nextEvent(t, p).Kind)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 5.0, p.Status().Position, 1e-9)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Zero(t, p.Status().Position)

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestModel_OpenPrompt(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock())
	var m tea.Model = NewModel(p, nil, nil)

	m, _ = m.Update(keyRunes("o"))
	require.True(t, m.(Model).opening)

	// Keys typed into the prompt do not drive the player.
	m, _ = m.Update(keyRunes("/tmp/b.mp4"))
	assert.False(t, p.Status().HasPosition)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.(Model).opening)
	require.NotNil(t, cmd)

	msg := cmd()
	opened, ok := msg.(openedMsg)
	require.True(t, ok)
	require.NoError(t, opened.err)
	assert.Equal(t, "/tmp/b.mp4", p.Path())
	assert.Equal(t, host.EventFileLoaded, nextEvent(t, p).Kind)
}

func TestModel_OpenPromptCancel(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock())
	var m tea.Model = NewModel(p, nil, nil)

	m, _ = m.Update(keyRunes("o"))
	m, _ = m.Update(keyRunes("x"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.(Model).opening)
	assert.Empty(t, p.Path())
}

func TestModel_ViewShowsStateAndHealth(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPlayer(clock)
	require.NoError(t, p.Open("/tmp/clip.mp4"))
	clock.Advance(65 * time.Second)
	p.OSD("loaded [stroke]")

	health := &state.Store{}
	health.Update("seek", errors.New("connection refused"))
	health.Update("seek", errors.New("connection refused"))

	view := NewModel(p, health, nil).View()
	assert.Contains(t, view, "clip.mp4")
	assert.Contains(t, view, "1:05.0")
	assert.Contains(t, view, "playing")
	assert.Contains(t, view, "loaded [stroke]")
	assert.Contains(t, view, "offline")
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00.0", formatClock(0))
	assert.Equal(t, "0:12.5", formatClock(12.5))
	assert.Equal(t, "1:05.0", formatClock(65))
	assert.Equal(t, "1:00:00.0", formatClock(3600))
	assert.Equal(t, "0:00.0", formatClock(-3))
}

func TestSession_ImplementsHost(t *testing.T) {
	s := New(Options{Files: []string{filepath.Join(os.TempDir(), "x.mp4")}})
	var h host.Host = s
	assert.NotNil(t, h.Events())
}
