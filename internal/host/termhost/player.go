package termhost

import (
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/host"
)

const (
	eventBuffer = 32
	recentLimit = 10
	seekStep    = 5.0
	osdDuration = 3 * time.Second
)

// Player is a virtual playhead driven from the keyboard. It implements
// host.Host; all methods are safe for concurrent use.
type Player struct {
	clock  clockwork.Clock
	log    *zap.Logger
	events chan host.Event

	sendMu sync.Mutex
	closed bool

	mu          sync.Mutex
	path        string
	position    float64
	loaded      bool
	paused      bool
	lastAdvance time.Time
	recent      []string
	osd         string
	osdAt       time.Time
}

// NewPlayer returns an idle, paused player.
func NewPlayer(clock clockwork.Clock) *Player {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Player{
		clock:  clock,
		log:    zap.NewNop(),
		events: make(chan host.Event, eventBuffer),
		paused: true,
	}
}

// Events implements host.Host.
func (p *Player) Events() <-chan host.Event {
	return p.events
}

// Status implements host.Host.
func (p *Player) Status() host.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	return host.Status{Position: p.position, HasPosition: p.loaded, Paused: p.paused}
}

// RecentDocuments implements host.Host.
func (p *Player) RecentDocuments() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.recent...)
}

// OSD implements host.Host. The message is shown until it expires.
func (p *Player) OSD(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.osd = msg
	p.osdAt = p.clock.Now()
}

// Message returns the current OSD text, or "" once it has expired.
func (p *Player) Message() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.osd == "" || p.clock.Since(p.osdAt) > osdDuration {
		return ""
	}
	return p.osd
}

// Path is the loaded file, if any.
func (p *Player) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Open loads path from the start and begins playing.
func (p *Player) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	doc := (&url.URL{Scheme: "file", Path: abs}).String()

	p.mu.Lock()
	p.path = abs
	p.position = 0
	p.loaded = true
	p.paused = false
	p.lastAdvance = p.clock.Now()
	p.recent = append([]string{doc}, p.recent...)
	if len(p.recent) > recentLimit {
		p.recent = p.recent[:recentLimit]
	}
	p.mu.Unlock()

	p.emit(host.EventFileLoaded)
	return nil
}

// TogglePause flips between playing and paused.
func (p *Player) TogglePause() {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return
	}
	p.advance()
	p.paused = !p.paused
	kind := host.EventResume
	if p.paused {
		kind = host.EventPause
	}
	p.mu.Unlock()

	p.emit(kind)
}

// Seek moves the playhead by delta seconds, never before 0.
func (p *Player) Seek(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return
	}
	p.advance()
	p.position += delta
	if p.position < 0 {
		p.position = 0
	}
}

// Close announces window-will-close and ends the event stream. Later calls
// do nothing.
func (p *Player) Close() {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed {
		return
	}
	p.send(host.EventWindowWillClose)
	p.closed = true
	close(p.events)
}

func (p *Player) advance() {
	now := p.clock.Now()
	if p.loaded && !p.paused {
		p.position += now.Sub(p.lastAdvance).Seconds()
	}
	p.lastAdvance = now
}

func (p *Player) emit(kind host.EventKind) {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed {
		return
	}
	p.send(kind)
}

func (p *Player) send(kind host.EventKind) {
	if !host.Deliver(p.clock, p.events, host.Event{Kind: kind}) {
		p.log.Warn("dropped host event", zap.Stringer("event", kind))
	}
}
