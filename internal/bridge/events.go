package bridge

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/host"
	"github.com/five82/tcodebridge/internal/tcode"
)

const (
	localScheme    = "file://"
	closingMessage = "closing"
)

// Action is one step produced by an event handler: an on-screen message, an
// RPC command, or both (message first).
type Action struct {
	Message string
	Command *tcode.Command
}

func message(msg string) Action {
	return Action{Message: msg}
}

func command(cmd tcode.Command) Action {
	return Action{Command: &cmd}
}

// Handler turns a host event into actions.
type Handler func(ev host.Event, h host.Host) []Action

// Phase is the session lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoaded
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoaded:
		return "loaded"
	case PhaseClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Session describes the file currently loaded in the device.
type Session struct {
	ID    string
	Path  string
	Phase Phase
}

// Events maps host lifecycle events to RPC commands.
type Events struct {
	log      *zap.Logger
	handlers map[host.EventKind]Handler
	session  Session
}

// NewEvents registers the file-loaded and window-will-close handlers. Pause
// and resume events are left unhandled; the reconciler detects those edges.
func NewEvents(log *zap.Logger) *Events {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Events{
		log:      log,
		handlers: make(map[host.EventKind]Handler),
	}
	e.Register(host.EventFileLoaded, e.onFileLoaded)
	e.Register(host.EventWindowWillClose, e.onWindowWillClose)
	return e
}

// Register installs h for kind, replacing any previous handler.
func (e *Events) Register(kind host.EventKind, h Handler) {
	e.handlers[kind] = h
}

// Handle runs the handler for ev, if any.
func (e *Events) Handle(ev host.Event, h host.Host) []Action {
	handler, ok := e.handlers[ev.Kind]
	if !ok {
		e.log.Debug("ignoring host event", zap.Stringer("event", ev.Kind))
		return nil
	}
	return handler(ev, h)
}

// Session returns the current session.
func (e *Events) Session() Session {
	return e.session
}

func (e *Events) onFileLoaded(_ host.Event, h host.Host) []Action {
	docs := h.RecentDocuments()
	if len(docs) == 0 {
		e.log.Info("file loaded without a recent document")
		return nil
	}

	path, ok := LocalPath(docs[0])
	if !ok {
		e.log.Info("ignoring non-local document", zap.String("url", docs[0]))
		return nil
	}

	e.session = Session{ID: uuid.NewString(), Path: path, Phase: PhaseLoaded}
	e.log.Info("load", zap.String("session", e.session.ID), zap.String("path", path))
	return []Action{command(tcode.Load(path))}
}

func (e *Events) onWindowWillClose(host.Event, host.Host) []Action {
	e.log.Info("close", zap.String("session", e.session.ID), zap.Stringer("from", e.session.Phase))
	e.session.Phase = PhaseClosed
	return []Action{message(closingMessage), command(tcode.Close())}
}

// LocalPath decodes a document URL and returns its filesystem path when the
// URL uses the file:// scheme.
func LocalPath(raw string) (string, bool) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", false
	}
	path, ok := strings.CutPrefix(decoded, localScheme)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}
