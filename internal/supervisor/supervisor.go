package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// DefaultReleaseURL serves the latest tcode-player build.
	DefaultReleaseURL = "https://github.com/saturdaythrowaway/iina-tcode/releases/latest/download/tcode-player"
	// DefaultLogPath is where the launched process writes its log.
	DefaultLogPath = "/tmp/tcode-player.log"
	// DefaultReadyTimeout bounds WaitReady.
	DefaultReadyTimeout = 5 * time.Second

	readyPollInterval = 100 * time.Millisecond
	downloadTimeout   = 10 * time.Minute
)

// Options configure a Supervisor. DataDir is required.
type Options struct {
	DataDir    string
	LogPath    string
	ReleaseURL string
	HTTPClient *http.Client
	Runner     Runner
	Logger     *zap.Logger
	Clock      clockwork.Clock
}

// Supervisor installs and launches the tcode-player binary.
type Supervisor struct {
	dataDir    string
	logPath    string
	releaseURL string
	http       *http.Client
	runner     Runner
	log        *zap.Logger
	clock      clockwork.Clock
}

// Handle describes a launched process.
type Handle struct {
	Version    string
	BinaryPath string
	LogPath    string
	LogLevel   string
	PID        int
}

// New validates opts and fills defaults.
func New(opts Options) (*Supervisor, error) {
	if opts.DataDir == "" {
		return nil, errors.New("supervisor requires a data directory")
	}
	s := &Supervisor{
		dataDir:    opts.DataDir,
		logPath:    opts.LogPath,
		releaseURL: opts.ReleaseURL,
		http:       opts.HTTPClient,
		runner:     opts.Runner,
		log:        opts.Logger,
		clock:      opts.Clock,
	}
	if s.logPath == "" {
		s.logPath = DefaultLogPath
	}
	if s.releaseURL == "" {
		s.releaseURL = DefaultReleaseURL
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: downloadTimeout}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.runner == nil {
		s.runner = ExecRunner{OnExit: s.logExit}
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s, nil
}

func (s *Supervisor) logExit(pid int, err error) {
	if err != nil {
		s.log.Info("tcode-player exited", zap.Int("pid", pid), zap.Error(err))
		return
	}
	s.log.Info("tcode-player exited", zap.Int("pid", pid))
}

// DataDir returns the directory holding tcode-player binaries.
func (s *Supervisor) DataDir() string {
	return s.dataDir
}

// Resolve picks the version to run.
func (s *Supervisor) Resolve(pinned string) Version {
	v := ResolveVersion(s.dataDir, pinned)
	s.log.Debug("resolved tcode-player", zap.String("tag", v.Tag), zap.String("loglevel", v.LogLevel))
	return v
}

// BinaryPath is where v lives on disk.
func (s *Supervisor) BinaryPath(v Version) string {
	return filepath.Join(s.dataDir, v.BinaryName())
}

// Launch terminates any running instance of v and starts a fresh one with
// its own process group. The child is released; its lifetime is not tracked.
func (s *Supervisor) Launch(ctx context.Context, v Version) (Handle, error) {
	name := v.BinaryName()
	if err := s.runner.Kill(ctx, name); err != nil {
		s.log.Debug("no running instance terminated", zap.String("name", name), zap.Error(err))
	}

	h := Handle{
		Version:    v.Tag,
		BinaryPath: s.BinaryPath(v),
		LogPath:    s.logPath,
		LogLevel:   v.LogLevel,
	}
	args := LaunchArgs(h.LogPath, h.LogLevel)

	pid, err := s.runner.Start(h.BinaryPath, args)
	if err != nil {
		return Handle{}, &LaunchError{Path: h.BinaryPath, Err: err}
	}
	h.PID = pid
	s.log.Info("tcode-player started",
		zap.String("version", h.Version),
		zap.Int("pid", pid),
		zap.String("logfile", h.LogPath),
	)
	return h, nil
}

// LaunchArgs is the tcode-player command line.
func LaunchArgs(logPath, level string) []string {
	return []string{"--logfile", logPath, "--loglevel", level, "listen"}
}

// Probe checks whether the process answers.
type Probe func(ctx context.Context) error

// WaitReady polls probe until it succeeds or timeout elapses. A non-positive
// timeout uses DefaultReadyTimeout.
func (s *Supervisor) WaitReady(ctx context.Context, probe Probe, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	deadline := s.clock.After(timeout)

	var lastErr error
	for attempt := 1; ; attempt++ {
		if lastErr = probe(ctx); lastErr == nil {
			s.log.Debug("tcode-player ready", zap.Int("attempts", attempt))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("tcode-player not ready after %s: %w", timeout, lastErr)
		case <-s.clock.After(readyPollInterval):
		}
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
