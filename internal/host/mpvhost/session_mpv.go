//go:build libmpv

package mpvhost

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	mpv "github.com/gen2brain/go-mpv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/host"
)

const eventBuffer = 32

// Session is a libmpv player window.
type Session struct {
	opts   Options
	client *mpv.Mpv
	clock  clockwork.Clock
	log    *zap.Logger
	events chan host.Event

	mu     sync.Mutex
	recent []string
	closed bool
}

var _ host.Session = (*Session)(nil)

// New creates and initializes libmpv. The window opens on Run.
func New(opts Options) (*Session, error) {
	client := mpv.New()
	if client == nil {
		return nil, errors.New("create libmpv instance")
	}

	setOptionString(client, "terminal", "no")
	setOptionString(client, "force-window", "yes")
	setOptionString(client, "idle", "yes")
	setOptionString(client, "keep-open", "yes")
	setOptionString(client, "input-default-bindings", "yes")
	setOptionString(client, "input-vo-keyboard", "yes")
	setOptionString(client, "osc", "yes")
	if opts.Fullscreen {
		setOptionString(client, "fullscreen", "yes")
	}

	if err := client.Initialize(); err != nil {
		client.TerminateDestroy()
		return nil, fmt.Errorf("initialize libmpv: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		opts:   opts,
		client: client,
		clock:  clockwork.NewRealClock(),
		log:    log,
		events: make(chan host.Event, eventBuffer),
	}, nil
}

// Events implements host.Host.
func (s *Session) Events() <-chan host.Event {
	return s.events
}

// Status implements host.Host.
func (s *Session) Status() host.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return host.Status{Paused: true}
	}

	var st host.Status
	if pos, ok := s.readDoubleLocked("time-pos"); ok {
		st.Position = pos
		st.HasPosition = true
	}
	paused, err := s.client.GetProperty("pause", mpv.FormatFlag)
	if flag, ok := paused.(bool); err == nil && ok {
		st.Paused = flag
	} else {
		st.Paused = true
	}
	return st
}

// RecentDocuments implements host.Host.
func (s *Session) RecentDocuments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recent...)
}

// OSD implements host.Host.
func (s *Session) OSD(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	_ = s.client.Command([]string{"show-text", msg, osdMillis})
}

// Run plays the queued files and blocks until the window is closed or ctx
// is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for i, f := range s.opts.Files {
		mode := "append-play"
		if i == 0 {
			mode = "replace"
		}
		if err := s.command("loadfile", f, mode); err != nil {
			return fmt.Errorf("load file %q: %w", f, err)
		}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = s.command("quit")
			s.client.Wakeup()
		case <-done:
		}
	}()
	defer close(done)

	s.eventLoop()
	s.shutdown()
	return nil
}

func (s *Session) eventLoop() {
	for {
		event := s.client.WaitEvent(0.5)
		if event == nil {
			continue
		}

		switch event.EventID {
		case mpv.EventShutdown:
			return
		case mpv.EventFileLoaded:
			s.mu.Lock()
			path, err := s.client.GetProperty("path", mpv.FormatString)
			if p, ok := path.(string); err == nil && ok && p != "" {
				s.recent = append([]string{documentURL(p)}, s.recent...)
			}
			s.mu.Unlock()
			s.emit(host.EventFileLoaded)
		}
	}
}

func (s *Session) shutdown() {
	s.emit(host.EventWindowWillClose)

	s.mu.Lock()
	s.closed = true
	s.client.TerminateDestroy()
	s.mu.Unlock()

	close(s.events)
}

func (s *Session) command(args ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("mpv closed")
	}
	return s.client.Command(args)
}

func (s *Session) emit(kind host.EventKind) {
	if !host.Deliver(s.clock, s.events, host.Event{Kind: kind}) {
		s.log.Warn("dropped host event", zap.Stringer("event", kind))
	}
}

func (s *Session) readDoubleLocked(property string) (float64, bool) {
	value, err := s.client.GetProperty(property, mpv.FormatDouble)
	if err != nil {
		return 0, false
	}
	seconds, ok := value.(float64)
	if !ok || math.IsNaN(seconds) || seconds < 0 {
		return 0, false
	}
	return seconds, true
}

func setOptionString(client *mpv.Mpv, name string, value string) {
	_ = client.SetOptionString(name, value)
}
