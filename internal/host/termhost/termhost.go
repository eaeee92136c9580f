// Package termhost is a terminal stand-in for a media player. It drives a
// virtual playhead from the keyboard and shows OSD messages and device
// health, so the bridge can be exercised without libmpv.
package termhost

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/host"
	"github.com/five82/tcodebridge/internal/state"
)

// Options configure a Session.
type Options struct {
	Files  []string
	Health *state.Store
	Clock  clockwork.Clock
	Logger *zap.Logger
	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Session runs the terminal player.
type Session struct {
	*Player
	opts Options
}

var _ host.Session = (*Session)(nil)

// New creates a session. Nothing is drawn until Run.
func New(opts Options) *Session {
	p := NewPlayer(opts.Clock)
	if opts.Logger != nil {
		p.log = opts.Logger
	}
	return &Session{Player: p, opts: opts}
}

// Run shows the player until the user quits or ctx is cancelled. Either way
// window-will-close is emitted and the event channel is closed.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	model := NewModel(s.Player, s.opts.Health, s.opts.Files)
	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, s.opts.ProgramOptions...)
	p := tea.NewProgram(model, popts...)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
