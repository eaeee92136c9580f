// Package prefs handles device preferences persistence.
// Preferences are stored in ~/.config/tcodebridge/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/tcodebridge/internal/tcode"
)

// Prefs holds the device tuning pushed to tcode-player.
type Prefs struct {
	Min        float64 `toml:"min"`
	Max        float64 `toml:"max"`
	Offset     float64 `toml:"offset"` // milliseconds
	PreferAlt  bool    `toml:"preferAlt"`
	PreferSoft bool    `toml:"preferSoft"`
	PreferHard bool    `toml:"preferHard"`
}

const defaultPrefsPath = "~/.config/tcodebridge/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults matches tcode-player's own parameters.
func Defaults() Prefs {
	d := tcode.DefaultDeviceConfig()
	return Prefs{Min: d.Min, Max: d.Max, Offset: d.OffsetMS}
}

// DeviceConfig converts to the RPC snapshot.
func (p Prefs) DeviceConfig() tcode.DeviceConfig {
	return tcode.DeviceConfig{
		Min:        p.Min,
		Max:        p.Max,
		OffsetMS:   p.Offset,
		PreferAlt:  p.PreferAlt,
		PreferSoft: p.PreferSoft,
		PreferHard: p.PreferHard,
	}
}

// Load reads preferences from the given path, falling back to defaults if
// missing. Keys absent from the file keep their default.
func Load(path string) (Prefs, error) {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	return prefs.sanitized(), nil
}

// sanitized keeps the stroke range inside [0,1] and ordered.
func (p Prefs) sanitized() Prefs {
	p.Min = clampUnit(p.Min)
	p.Max = clampUnit(p.Max)
	if p.Min > p.Max {
		d := Defaults()
		p.Min, p.Max = d.Min, d.Max
	}
	return p
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// ResolvePath expands path, or the default location when path is empty.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
