package tcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kolo/xmlrpc"
)

// Dispatcher issues commands asynchronously. Implemented by *Client.
type Dispatcher interface {
	Go(cmd Command, done chan Result) chan Result
}

// Ensure Client implements Dispatcher at compile time.
var _ Dispatcher = (*Client)(nil)

var (
	// ErrQueueFull is reported when the send queue cannot take another call.
	ErrQueueFull = errors.New("tcode: send queue full")
	// ErrClosed is reported for calls made after Shutdown.
	ErrClosed = errors.New("tcode: client closed")
)

const (
	// DefaultEndpoint is where tcode-player listens.
	DefaultEndpoint = "http://localhost:6800/xmlrpc"

	defaultQueueSize  = 256
	defaultCloseGrace = 2 * time.Second
)

type caller interface {
	Call(serviceMethod string, args any, reply any) error
	Close() error
}

// Client talks to tcode-player over XML-RPC. Calls are sent one at a time,
// in dispatch order, by a single sender goroutine.
type Client struct {
	endpoint string
	rpc      caller

	mu      sync.RWMutex
	closed  bool
	queue   chan request
	quit    chan struct{}
	stopped chan struct{}
}

type request struct {
	cmd  Command
	done chan Result
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	timeout   time.Duration
	queueSize int
	transport http.RoundTripper
}

// WithTimeout bounds how long a call waits for response headers. Zero, the
// default, waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithQueueSize sets how many calls may wait for the sender.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithTransport overrides the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// NewClient builds a Client for the given endpoint URL. An empty endpoint
// uses DefaultEndpoint; a bare host:port gets the /xmlrpc path.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	o := options{queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	rt := o.transport
	if rt == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.ResponseHeaderTimeout = o.timeout
		rt = base
	}
	rt = statusTransport{next: rt}

	rpc, err := xmlrpc.NewClient(u.String(), rt)
	if err != nil {
		return nil, fmt.Errorf("create xmlrpc client: %w", err)
	}

	c := newClient(u.String(), rpc, o.queueSize)
	return c, nil
}

func newClient(endpoint string, rpc caller, queueSize int) *Client {
	c := &Client{
		endpoint: endpoint,
		rpc:      rpc,
		queue:    make(chan request, queueSize),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Endpoint returns the normalized endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Go queues cmd and returns immediately. The result is delivered on done,
// which is allocated with capacity one when nil. As with net/rpc, a result
// is dropped rather than blocking the sender when done has no free capacity.
func (c *Client) Go(cmd Command, done chan Result) chan Result {
	if done == nil {
		done = make(chan Result, 1)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		deliver(done, Result{Command: cmd, Err: ErrClosed})
		return done
	}

	select {
	case c.queue <- request{cmd: cmd, done: done}:
	default:
		deliver(done, Result{Command: cmd, Err: ErrQueueFull})
	}
	return done
}

// Call dispatches cmd and waits for its result or ctx.
func (c *Client) Call(ctx context.Context, cmd Command) Result {
	select {
	case res := <-c.Go(cmd, nil):
		return res
	case <-ctx.Done():
		return Result{Command: cmd, Err: ctx.Err()}
	}
}

// Shutdown stops accepting calls and waits until every queued call has been
// sent, or until ctx is done.
func (c *Client) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.quit)
	}
	c.mu.Unlock()

	select {
	case <-c.stopped:
		return c.rpc.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close is Shutdown with a short grace period.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCloseGrace)
	defer cancel()
	return c.Shutdown(ctx)
}

func (c *Client) run() {
	defer close(c.stopped)
	for {
		select {
		case req := <-c.queue:
			deliver(req.done, c.send(req.cmd))
		case <-c.quit:
			for {
				select {
				case req := <-c.queue:
					deliver(req.done, c.send(req.cmd))
				default:
					return
				}
			}
		}
	}
}

func (c *Client) send(cmd Command) Result {
	var args any
	if len(cmd.Params) > 0 {
		params := make([]any, len(cmd.Params))
		for i, p := range cmd.Params {
			params[i] = p
		}
		args = params
	}

	var reply string
	var dest any
	if cmd.DecodeReply {
		dest = &reply
	}

	if err := c.rpc.Call(cmd.Method, args, dest); err != nil {
		return Result{Command: cmd, Err: fmt.Errorf("call %s: %w", cmd.Method, err)}
	}
	return Result{Command: cmd, Reply: strings.TrimSpace(reply)}
}

// statusTransport turns non-2xx responses into transport errors. tcode-player
// reports failures as HTTP 500 with a plain string reply, not as a fault.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("tcode-player returned status %d", resp.StatusCode)
	}
	return resp, nil
}

func deliver(done chan Result, res Result) {
	select {
	case done <- res:
	default:
	}
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/xmlrpc"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
