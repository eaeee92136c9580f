package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/bridge"
	"github.com/five82/tcodebridge/internal/config"
	"github.com/five82/tcodebridge/internal/host"
	"github.com/five82/tcodebridge/internal/host/mpvhost"
	"github.com/five82/tcodebridge/internal/host/termhost"
	"github.com/five82/tcodebridge/internal/logging"
	"github.com/five82/tcodebridge/internal/prefs"
	"github.com/five82/tcodebridge/internal/state"
	"github.com/five82/tcodebridge/internal/supervisor"
	"github.com/five82/tcodebridge/internal/tcode"
)

// Host names accepted by Options.Host.
const (
	HostTerm = "term"
	HostMPV  = "mpv"
)

const shutdownGrace = 2 * time.Second

// Options configure the bridge application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses the config's prefs_path
	EnvFile    string // empty uses ./.env
	Host       string // term (default) or mpv
	Files      []string
	Debug      bool
	NoLaunch   bool
	// Console receives log records in addition to the log file. Ignored for
	// the terminal host, which owns the screen.
	Console io.Writer
}

// Env is the loaded configuration plus a logger built from it.
type Env struct {
	Config  config.Config
	Version supervisor.Version
	Logger  *zap.Logger
	close   func() error
}

// Close flushes the logger.
func (e *Env) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// Setup loads configuration and builds the logger. The log level is debug
// with debug set or when a dev build of tcode-player is present.
func Setup(configPath, envFile string, debug bool, console io.Writer) (*Env, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	version := supervisor.ResolveVersion(cfg.DataDir, cfg.PlayerVersion)
	level := logging.InfoLevel
	if debug || version.IsDev() {
		level = logging.DebugLevel
	}

	logger, closeFn, err := logging.New(logging.Options{Level: level, File: cfg.LogFile, Console: console})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return &Env{Config: cfg, Version: version, Logger: logger, close: closeFn}, nil
}

// NewSupervisor builds the process supervisor for env.
func (e *Env) NewSupervisor() (*supervisor.Supervisor, error) {
	return supervisor.New(supervisor.Options{
		DataDir:    e.Config.DataDir,
		LogPath:    e.Config.PlayerLog,
		ReleaseURL: e.Config.ReleaseURL,
		Logger:     e.Logger.Named("supervisor"),
	})
}

// NewClient builds the RPC client for env.
func (e *Env) NewClient(opts ...tcode.Option) (*tcode.Client, error) {
	client, err := tcode.NewClient(e.Config.RPCURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("init tcode client: %w", err)
	}
	return client, nil
}

// Run supervises tcode-player, opens the host player and bridges the two
// until the player closes or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	console := opts.Console
	if opts.Host == "" || opts.Host == HostTerm {
		console = nil
	}
	env, err := Setup(opts.ConfigPath, opts.EnvFile, opts.Debug, console)
	if err != nil {
		return err
	}
	defer env.Close()
	log := env.Logger

	client, err := env.NewClient()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := client.Shutdown(shutdownCtx); err != nil {
			log.Warn("rpc client shutdown", zap.Error(err))
		}
	}()

	if !opts.NoLaunch {
		sup, err := env.NewSupervisor()
		if err != nil {
			return err
		}
		if err := startPlayer(ctx, sup, env.Version, client, log); err != nil {
			return err
		}
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = env.Config.PrefsPath
	}
	watcher, err := prefs.Watch(prefsPath, log.Named("prefs"))
	if err != nil {
		return fmt.Errorf("watch prefs: %w", err)
	}
	defer watcher.Close()
	go func() { _ = watcher.Run(ctx) }()

	health := state.NewStore(clockwork.NewRealClock())
	session, err := newHost(opts, health, log.Named("host"))
	if err != nil {
		return err
	}

	loop, err := bridge.New(bridge.Options{
		Host:   session,
		Client: client,
		Config: watcher,
		Health: health,
		Logger: log.Named("bridge"),
	})
	if err != nil {
		return err
	}

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	hostErr := session.Run(ctx)
	loopErr := <-loopDone

	log.Info("bridge stopped", zap.Uint64("calls", health.Snapshot().Calls))
	return errors.Join(hostErr, loopErr)
}

// startPlayer installs and launches tcode-player. Install failures are
// logged and launching proceeds with whatever binary exists; a launch
// failure is returned.
func startPlayer(ctx context.Context, sup *supervisor.Supervisor, v supervisor.Version, client *tcode.Client, log *zap.Logger) error {
	if err := sup.EnsureInstalled(ctx, v); err != nil {
		log.Error("install tcode-player", zap.Error(err))
	}

	if _, err := sup.Launch(ctx, v); err != nil {
		return err
	}

	probe := func(ctx context.Context) error {
		return client.Call(ctx, tcode.Version()).Err
	}
	if err := sup.WaitReady(ctx, probe, supervisor.DefaultReadyTimeout); err != nil {
		log.Warn("tcode-player did not answer yet", zap.Error(err))
	}
	return nil
}

func newHost(opts Options, health *state.Store, log *zap.Logger) (host.Session, error) {
	switch opts.Host {
	case "", HostTerm:
		return termhost.New(termhost.Options{Files: opts.Files, Health: health, Logger: log}), nil
	case HostMPV:
		s, err := mpvhost.New(mpvhost.Options{Files: opts.Files, Logger: log})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown host %q (want %s or %s)", opts.Host, HostTerm, HostMPV)
	}
}

// Install resolves and installs tcode-player without launching it.
func Install(ctx context.Context, env *Env) (supervisor.Version, string, error) {
	sup, err := env.NewSupervisor()
	if err != nil {
		return supervisor.Version{}, "", err
	}
	if err := sup.EnsureInstalled(ctx, env.Version); err != nil {
		return env.Version, "", err
	}
	return env.Version, sup.BinaryPath(env.Version), nil
}

// Send makes one blocking call and returns its reply.
func Send(ctx context.Context, env *Env, cmd tcode.Command) (string, error) {
	client, err := env.NewClient()
	if err != nil {
		return "", err
	}
	defer client.Close()

	res := client.Call(ctx, cmd)
	return res.Reply, res.Err
}
