//go:build !libmpv

package mpvhost

import (
	"context"
	"errors"

	"github.com/five82/tcodebridge/internal/host"
)

// ErrUnavailable is returned by New when built without libmpv.
var ErrUnavailable = errors.New("mpv host unavailable: rebuild with -tags libmpv")

// Session is a placeholder when libmpv is not compiled in.
type Session struct{}

var _ host.Session = (*Session)(nil)

// New always fails without the libmpv build tag.
func New(Options) (*Session, error) {
	return nil, ErrUnavailable
}

// Events implements host.Host. The channel is nil.
func (*Session) Events() <-chan host.Event { return nil }

// Status implements host.Host with no file loaded.
func (*Session) Status() host.Status { return host.Status{} }

// RecentDocuments implements host.Host.
func (*Session) RecentDocuments() []string { return nil }

// OSD implements host.Host and discards msg.
func (*Session) OSD(string) {}

// Run implements host.Session and always returns ErrUnavailable.
func (*Session) Run(context.Context) error { return ErrUnavailable }
