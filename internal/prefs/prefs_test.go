package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("prefs = %+v, want %+v", p, Defaults())
	}
	if p.Min != 0.15 || p.Max != 0.75 {
		t.Fatalf("range = %v..%v, want 0.15..0.75", p.Min, p.Max)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "tcodebridge")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	body := "min = 0.2\nmax = 0.9\noffset = 40\npreferSoft = true\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{Min: 0.2, Max: 0.9, Offset: 40, PreferSoft: true}
	if p != want {
		t.Fatalf("prefs = %+v, want %+v", p, want)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(prefsFile, []byte("preferHard = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !p.PreferHard || p.Min != 0.15 || p.Max != 0.75 {
		t.Fatalf("prefs = %+v, want defaults plus preferHard", p)
	}
}

func TestLoad_InvertedRangeFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("min = 0.8\nmax = 0.2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Min != 0.15 || p.Max != 0.75 {
		t.Fatalf("range = %v..%v, want defaults", p.Min, p.Max)
	}
}

func TestLoad_ClampsRange(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("min = -1.0\nmax = 3.0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, _ := Load(prefsFile)
	if p.Min != 0 || p.Max != 1 {
		t.Fatalf("range = %v..%v, want 0..1", p.Min, p.Max)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Prefs{Min: 0.3, Max: 0.6, Offset: -25, PreferAlt: true}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != p {
		t.Fatalf("loaded = %+v, want %+v", loaded, p)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("prefs = %+v, want defaults", p)
	}
}

func TestDeviceConfig(t *testing.T) {
	cfg := Prefs{Min: 0.1, Max: 0.5, Offset: 12, PreferSoft: true}.DeviceConfig()
	if cfg.Min != 0.1 || cfg.Max != 0.5 || cfg.OffsetMS != 12 || !cfg.PreferSoft || cfg.PreferAlt || cfg.PreferHard {
		t.Fatalf("DeviceConfig = %+v", cfg)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")

	w, err := Watch(prefsFile, nil)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if w.Current() != Defaults() {
		t.Fatalf("initial prefs = %+v, want defaults", w.Current())
	}

	changes := make(chan Prefs, 4)
	w.OnChange(func(p Prefs) { changes <- p })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Run(ctx) }()

	if err := Save(prefsFile, Prefs{Min: 0.4, Max: 0.6}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case p := <-changes:
		if p.Min != 0.4 || p.Max != 0.6 {
			t.Fatalf("reloaded prefs = %+v", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not report the change")
	}
	if got := w.Snapshot(); got.Min != 0.4 || got.Max != 0.6 {
		t.Fatalf("Snapshot = %+v", got)
	}
}
