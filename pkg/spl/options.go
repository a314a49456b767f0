package spl

import "github.com/pa-spl/spl-go/pkg/log"

// Option configures a Driver at construction.
type Option func(*Driver)

// WithAddress sets the 7-bit device address. The default is
// register.DefaultAddress.
func WithAddress(addr uint16) Option {
	return func(d *Driver) {
		d.addr = addr
	}
}

// WithLogger attaches a trace logger. A nil logger disables tracing.
func WithLogger(logger log.Logger) Option {
	return func(d *Driver) {
		if logger == nil {
			logger = log.NoopLogger{}
		}
		d.logger = logger
	}
}

// WithSessionID sets the session ID stamped on trace events. The default is
// a random UUID.
func WithSessionID(id string) Option {
	return func(d *Driver) {
		d.sessionID = id
	}
}
