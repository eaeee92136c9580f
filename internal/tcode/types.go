package tcode

import (
	"math"
	"strconv"
)

// Method names understood by tcode-player's /xmlrpc endpoint.
const (
	MethodLoad    = "load"
	MethodPlay    = "play"
	MethodPause   = "pause"
	MethodSeek    = "seek"
	MethodSet     = "set"
	MethodClose   = "close"
	MethodVersion = "version"
	MethodRender  = "render"
)

// emptyReply lists methods whose response carries no value.
var emptyReply = map[string]bool{
	MethodSeek:  true,
	MethodClose: true,
}

// Policy declares what happens to a call's failure.
type Policy int

const (
	// PolicySwallow logs failures at debug level only. Used by the polling
	// loop so transient connectivity errors never reach the user.
	PolicySwallow Policy = iota
	// PolicySurface shows failures (and decoded replies) to the user.
	PolicySurface
)

func (p Policy) String() string {
	switch p {
	case PolicySurface:
		return "surface"
	default:
		return "swallow"
	}
}

// Command is one XML-RPC request: a method and positional string params.
type Command struct {
	Method string
	Params []string
	Policy Policy
	// DecodeReply asks the client to decode a string reply. Methods that
	// answer with an empty body must leave it false.
	DecodeReply bool
}

// Result is the outcome of a dispatched Command.
type Result struct {
	Command Command
	Reply   string
	Err     error
}

// DeviceConfig is the device tuning snapshot pushed by the "set" method.
type DeviceConfig struct {
	Min        float64
	Max        float64
	OffsetMS   float64
	PreferAlt  bool
	PreferSoft bool
	PreferHard bool
}

// DefaultDeviceConfig mirrors tcode-player's built-in parameters.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{Min: 0.15, Max: 0.75}
}

// Params flattens the config into key/value pairs in wire order.
func (c DeviceConfig) Params() []string {
	return []string{
		"min", formatNumber(c.Min),
		"max", formatNumber(c.Max),
		"offset", formatNumber(c.OffsetMS) + "ms",
		"preferAlt", strconv.FormatBool(c.PreferAlt),
		"preferSoft", strconv.FormatBool(c.PreferSoft),
		"preferHard", strconv.FormatBool(c.PreferHard),
	}
}

// Load opens a file in the device. The reply is shown to the user.
func Load(path string) Command {
	return Command{
		Method:      MethodLoad,
		Params:      []string{"filename", path},
		Policy:      PolicySurface,
		DecodeReply: true,
	}
}

// Play resumes at position seconds.
func Play(position float64) Command {
	return transport(MethodPlay, position)
}

// Pause pauses at position seconds.
func Pause(position float64) Command {
	return transport(MethodPause, position)
}

// Seek repositions without changing play state.
func Seek(position float64) Command {
	return transport(MethodSeek, position)
}

// Set pushes a full configuration snapshot.
func Set(cfg DeviceConfig) Command {
	return Command{Method: MethodSet, Params: cfg.Params(), Policy: PolicySwallow}
}

// Close signals the end of the session.
func Close() Command {
	return Command{Method: MethodClose, Policy: PolicySurface}
}

// Version asks for the server version; used as a readiness probe.
func Version() Command {
	return Command{Method: MethodVersion, Policy: PolicySwallow, DecodeReply: true}
}

// Render asks the device to draw the stroke heatmap of the loaded script to
// output.
func Render(output string) Command {
	return Command{
		Method:      MethodRender,
		Params:      []string{"output", output},
		Policy:      PolicySurface,
		DecodeReply: true,
	}
}

// Raw builds an arbitrary call from positional params. Replies are decoded
// unless the method is known to answer with an empty body.
func Raw(method string, params ...string) Command {
	return Command{
		Method:      method,
		Params:      params,
		Policy:      PolicySurface,
		DecodeReply: !emptyReply[method],
	}
}

func transport(method string, position float64) Command {
	return Command{
		Method: method,
		Params: []string{"seek", FormatSeconds(position)},
		Policy: PolicySwallow,
	}
}

// FormatSeconds renders a position the way tcode-player parses it ("12.5s").
func FormatSeconds(position float64) string {
	return formatNumber(position) + "s"
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
