package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/tcode"
)

// Watcher keeps the latest preferences in memory and reloads them when the
// file changes. The parent directory is watched so editors that replace the
// file are still seen.
type Watcher struct {
	path string
	log  *zap.Logger
	fs   *fsnotify.Watcher

	mu      sync.RWMutex
	current Prefs
	changed func(Prefs)
}

// Watch loads path and starts watching it. Call Run to process changes.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs path: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{path: resolved, log: log, fs: fsw}
	w.current, _ = Load(resolved)
	return w, nil
}

// Path is the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Current returns the latest preferences.
func (w *Watcher) Current() Prefs {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Snapshot returns the latest preferences as a device config.
func (w *Watcher) Snapshot() tcode.DeviceConfig {
	return w.Current().DeviceConfig()
}

// OnChange registers fn to run after each reload.
func (w *Watcher) OnChange(fn func(Prefs)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changed = fn
}

// Run processes file events until ctx is cancelled or the watcher closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("prefs watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	next, _ := Load(w.path)

	w.mu.Lock()
	prev := w.current
	w.current = next
	changed := w.changed
	w.mu.Unlock()

	if prev == next {
		return
	}
	w.log.Info("device preferences reloaded",
		zap.Float64("min", next.Min),
		zap.Float64("max", next.Max),
		zap.Float64("offset_ms", next.Offset),
	)
	if changed != nil {
		changed(next)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
