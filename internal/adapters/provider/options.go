package provider

import (
	"time"

	"github.com/okian/neuroshop/pkg/logger"
)

// Default gateway deadlines.
const (
	DefaultProviderTimeout = 8 * time.Second
	DefaultGlobalTimeout   = 12 * time.Second
)

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithProviderTimeout bounds each provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.providerTimeout = d
		}
	}
}

// WithGlobalTimeout bounds the whole fan-out.
func WithGlobalTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.globalTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}
