package termhost

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/tcodebridge/internal/state"
)

const frameInterval = 100 * time.Millisecond

type frameMsg time.Time

type openedMsg struct{ err error }

// Model is the Bubble Tea view over a Player.
type Model struct {
	player *Player
	health *state.Store
	files  []string

	keys    keyMap
	help    help.Model
	input   textinput.Model
	styles  styles
	opening bool
	err     error
	width   int
}

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	playing lipgloss.Style
	paused  lipgloss.Style
	osd     lipgloss.Style
	online  lipgloss.Style
	offline lipgloss.Style
	faint   lipgloss.Style
	box     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")).Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")).Width(9),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")),
		playing: lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")).Bold(true),
		osd:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Italic(true),
		online:  lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		offline: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
		faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#44475A")).
			Padding(0, 1),
	}
}

// NewModel builds a model over player. files are opened in order at start;
// only the last one stays loaded.
func NewModel(player *Player, health *state.Store, files []string) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/video.mp4"
	ti.Prompt = "open: "
	ti.CharLimit = 4096

	return Model{
		player: player,
		health: health,
		files:  files,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  ti,
		styles: defaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	opens := make([]tea.Cmd, 0, len(m.files))
	for _, f := range m.files {
		opens = append(opens, openCmd(m.player, f))
	}
	return tea.Batch(frameCmd(), tea.Sequence(opens...))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.opening {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		return m, frameCmd()

	case openedMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.player.TogglePause()
	case key.Matches(msg, m.keys.Back):
		m.player.Seek(-seekStep)
	case key.Matches(msg, m.keys.Forward):
		m.player.Seek(seekStep)
	case key.Matches(msg, m.keys.Open):
		m.opening = true
		m.err = nil
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.opening = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.opening = false
		m.input.Blur()
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			return m, nil
		}
		return m, openCmd(m.player, path)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	st := m.player.Status()
	s := m.styles

	var b strings.Builder
	b.WriteString(s.title.Render("tcodebridge"))
	b.WriteString("\n\n")

	file := "(no file)"
	if p := m.player.Path(); p != "" {
		file = filepath.Base(p)
	}
	b.WriteString(row(s, "file", file))

	mode := s.paused.Render("paused")
	if !st.Paused {
		mode = s.playing.Render("playing")
	}
	pos := "--:--"
	if st.HasPosition {
		pos = formatClock(st.Position)
	}
	b.WriteString(row(s, "position", pos+"  "+mode))
	b.WriteString(row(s, "device", m.deviceLine()))

	if msg := m.player.Message(); msg != "" {
		b.WriteString("\n")
		b.WriteString(s.osd.Render(msg))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(s.offline.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.opening {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	body := s.box.Render(b.String())
	return body + "\n" + m.help.View(m.keys) + "\n"
}

func (m Model) deviceLine() string {
	s := m.styles
	if m.health == nil {
		return s.faint.Render("unknown")
	}
	snap := m.health.Snapshot()
	if snap.Calls == 0 {
		return s.faint.Render("waiting")
	}
	if snap.IsOffline() {
		line := s.offline.Render("offline")
		if snap.LastError != nil {
			line += " " + s.faint.Render(snap.LastError.Error())
		}
		return line
	}
	line := s.online.Render("online")
	line += s.faint.Render(fmt.Sprintf("  %s calls", humanize.Comma(int64(snap.Calls))))
	if !snap.LastSuccess.IsZero() {
		line += s.faint.Render(", last ok " + humanize.Time(snap.LastSuccess))
	}
	return line
}

func row(s styles, label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}

// formatClock renders seconds as m:ss.t, or h:mm:ss.t past an hour.
func formatClock(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	tenths := int64(sec * 10)
	h := tenths / 36000
	mnt := tenths / 600 % 60
	s := tenths / 10 % 60
	t := tenths % 10
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%d", h, mnt, s, t)
	}
	return fmt.Sprintf("%d:%02d.%d", mnt, s, t)
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func openCmd(p *Player, path string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{err: p.Open(path)}
	}
}
