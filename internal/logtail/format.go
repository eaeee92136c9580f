package logtail

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Keys recognised in structured records. tcode-player writes zerolog
// ("message"); the bridge writes zap ("msg").
var (
	timeKeys    = []string{"time", "timestamp", "ts"}
	levelKeys   = []string{"level"}
	messageKeys = []string{"message", "msg"}
	skipKeys    = []string{"caller", "stacktrace", "logger"}
)

// Formatter renders JSON log records as single readable lines.
type Formatter struct {
	color bool

	timeStyle  lipgloss.Style
	keyStyle   lipgloss.Style
	levelStyle map[string]lipgloss.Style
}

// NewFormatter returns a Formatter. With color false the output is plain text.
func NewFormatter(color bool) *Formatter {
	f := &Formatter{color: color}
	if !color {
		return f
	}
	level := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}
	f.timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	f.keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	f.levelStyle = map[string]lipgloss.Style{
		"DEBUG": level("#87CEEB"),
		"INFO":  level("#5FD75F"),
		"WARN":  level("#FFD700"),
		"ERROR": level("#FF6B6B"),
		"FATAL": level("#FF6B6B"),
		"PANIC": level("#FF6B6B"),
	}
	return f
}

// Line formats one record. Lines that are not JSON objects are returned
// unchanged.
func (f *Formatter) Line(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return line
	}

	var record map[string]any
	if err := json.UnmarshalFromString(trimmed, &record); err != nil {
		return line
	}

	ts := take(record, timeKeys)
	level := strings.ToUpper(take(record, levelKeys))
	if level == "WARNING" {
		level = "WARN"
	}
	msg := take(record, messageKeys)
	for _, k := range skipKeys {
		delete(record, k)
	}

	var b strings.Builder
	if ts != "" {
		b.WriteString(f.paint(f.timeStyle, ts))
		b.WriteByte(' ')
	}
	if level != "" {
		b.WriteString(f.paint(f.levelStyle[level], fmt.Sprintf("%-5s", level)))
		b.WriteByte(' ')
	}
	b.WriteString(msg)

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(f.paint(f.keyStyle, k+"="))
		b.WriteString(value(record[k]))
	}
	return b.String()
}

// Lines formats every line.
func (f *Formatter) Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = f.Line(l)
	}
	return out
}

func (f *Formatter) paint(style lipgloss.Style, s string) string {
	if !f.color {
		return s
	}
	return style.Render(s)
}

func take(record map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := record[k]; ok {
			delete(record, k)
			if s, ok := v.(string); ok {
				return s
			}
			return value(v)
		}
	}
	return ""
}

func value(v any) string {
	switch t := v.(type) {
	case string:
		if strings.ContainsAny(t, " \t\"=") {
			return fmt.Sprintf("%q", t)
		}
		return t
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(t)
	default:
		s, err := json.MarshalToString(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return s
	}
}
