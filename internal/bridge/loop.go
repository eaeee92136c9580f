package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/five82/tcodebridge/internal/host"
	"github.com/five82/tcodebridge/internal/sched"
	"github.com/five82/tcodebridge/internal/state"
	"github.com/five82/tcodebridge/internal/tcode"
)

const (
	// DefaultFastInterval samples playback at roughly 60 Hz.
	DefaultFastInterval = time.Second / 60
	// DefaultSlowInterval pushes the device configuration.
	DefaultSlowInterval = 2 * time.Second
	// DefaultDrainTimeout bounds how long Run waits for the host to finish
	// its shutdown events after ctx is cancelled.
	DefaultDrainTimeout = 2 * time.Second

	resultBuffer = 64
)

// ConfigSource supplies the latest device configuration snapshot.
type ConfigSource interface {
	Snapshot() tcode.DeviceConfig
}

// StaticConfig is a ConfigSource that never changes.
type StaticConfig tcode.DeviceConfig

// Snapshot implements ConfigSource.
func (c StaticConfig) Snapshot() tcode.DeviceConfig {
	return tcode.DeviceConfig(c)
}

// Options configure a Loop.
type Options struct {
	Host     host.Host
	Client   tcode.Dispatcher
	Config   ConfigSource
	Health   *state.Store
	Clock    clockwork.Clock
	Logger   *zap.Logger
	Fast     time.Duration
	Slow     time.Duration
	Debounce time.Duration
	Drain    time.Duration
}

// Loop is the single goroutine that owns the sync cursor, the debouncers and
// event dispatch. Every host read, timer and RPC result is handled here.
type Loop struct {
	host    host.Host
	client  tcode.Dispatcher
	config  ConfigSource
	health  *state.Store
	clock   clockwork.Clock
	log     *zap.Logger
	fast    time.Duration
	slow    time.Duration
	drain   time.Duration
	events  *Events
	recon   *Reconciler
	play    *sched.Debouncer[struct{}]
	pause   *sched.Debouncer[struct{}]
	results chan tcode.Result
}

// New builds a Loop. Host and Client are required.
func New(opts Options) (*Loop, error) {
	if opts.Host == nil {
		return nil, fmt.Errorf("bridge requires a host")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("bridge requires an rpc client")
	}

	l := &Loop{
		host:    opts.Host,
		client:  opts.Client,
		config:  opts.Config,
		health:  opts.Health,
		clock:   opts.Clock,
		log:     opts.Logger,
		fast:    opts.Fast,
		slow:    opts.Slow,
		drain:   opts.Drain,
		results: make(chan tcode.Result, resultBuffer),
	}
	if l.config == nil {
		l.config = StaticConfig(tcode.DefaultDeviceConfig())
	}
	if l.clock == nil {
		l.clock = clockwork.NewRealClock()
	}
	if l.health == nil {
		l.health = state.NewStore(l.clock)
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if l.fast <= 0 {
		l.fast = DefaultFastInterval
	}
	if l.slow <= 0 {
		l.slow = DefaultSlowInterval
	}
	if l.drain <= 0 {
		l.drain = DefaultDrainTimeout
	}

	l.events = NewEvents(l.log)
	l.recon = NewReconciler(SyncState{})
	l.play = sched.NewDebouncer(l.clock, opts.Debounce, func(struct{}) { l.transport(tcode.Play) })
	l.pause = sched.NewDebouncer(l.clock, opts.Debounce, func(struct{}) { l.transport(tcode.Pause) })
	return l, nil
}

// Events exposes the event bridge, mainly so callers can register handlers.
func (l *Loop) Events() *Events {
	return l.events
}

// Run drives both timers until the host closes its event channel. Once ctx is
// cancelled the timers stop, but host events are still handled until the
// channel closes or the drain timeout passes, so a window-will-close sent
// during shutdown still produces "close".
func (l *Loop) Run(ctx context.Context) error {
	fast := l.clock.NewTicker(l.fast)
	defer fast.Stop()
	slow := l.clock.NewTicker(l.slow)
	defer slow.Stop()

	l.log.Debug("bridge loop started", zap.Duration("fast", l.fast), zap.Duration("slow", l.slow))

	events := l.host.Events()
	for {
		select {
		case <-ctx.Done():
			l.drainEvents(events)
			return nil
		case ev, ok := <-events:
			if !ok {
				l.log.Debug("host event stream closed")
				return nil
			}
			l.handleEvent(ev)
		case <-fast.Chan():
			l.tick()
		case <-slow.Chan():
			l.pushConfig()
		case <-l.play.C():
			l.play.Fire()
		case <-l.pause.C():
			l.pause.Fire()
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) drainEvents(events <-chan host.Event) {
	timeout := l.clock.After(l.drain)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			l.handleEvent(ev)
		case res := <-l.results:
			l.handleResult(res)
		case <-timeout:
			l.log.Warn("host did not close its event stream", zap.Duration("waited", l.drain))
			return
		}
	}
}

func (l *Loop) tick() {
	res := l.recon.Tick(l.host.Status())

	switch res.Edge {
	case EdgePause:
		l.pause.Trigger(struct{}{})
	case EdgePlay:
		l.play.Trigger(struct{}{})
	}

	if res.Seek {
		l.dispatch(tcode.Seek(res.Position))
	}
}

func (l *Loop) pushConfig() {
	l.dispatch(ConfigCommand(l.config.Snapshot()))
}

// transport sends play or pause with the position read at fire time.
func (l *Loop) transport(build func(float64) tcode.Command) {
	cmd := build(l.host.Status().PositionOrZero())
	l.log.Debug(cmd.Method, zap.Strings("params", cmd.Params))
	l.dispatch(cmd)
}

func (l *Loop) handleEvent(ev host.Event) {
	for _, action := range l.events.Handle(ev, l.host) {
		if action.Message != "" {
			l.host.OSD(action.Message)
		}
		if action.Command != nil {
			l.dispatch(*action.Command)
		}
	}
}

func (l *Loop) dispatch(cmd tcode.Command) {
	l.client.Go(cmd, l.results)
}

func (l *Loop) handleResult(res tcode.Result) {
	switch l.health.Update(res.Command.Method, res.Err) {
	case state.WentOffline:
		l.log.Warn("tcode-player unreachable", zap.Error(res.Err))
	case state.CameOnline:
		l.log.Info("tcode-player reachable again")
	}

	if res.Err != nil {
		if res.Command.Policy == tcode.PolicySurface {
			l.log.Error("rpc call failed", zap.String("method", res.Command.Method), zap.Error(res.Err))
			l.host.OSD(fmt.Sprintf("tcode: %s failed: %v", res.Command.Method, res.Err))
			return
		}
		l.log.Debug("rpc call failed", zap.String("method", res.Command.Method), zap.Error(res.Err))
		return
	}

	if res.Command.Policy == tcode.PolicySurface && res.Reply != "" {
		l.log.Info(res.Command.Method, zap.String("reply", res.Reply))
		l.host.OSD(res.Reply)
	}
}
