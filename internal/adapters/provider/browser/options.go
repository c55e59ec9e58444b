package browser

import (
	"github.com/okian/neuroshop/pkg/logger"
)

// Option applies a configuration option to a Browser provider.
type Option func(*Browser)

// WithUserAgent sets the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(b *Browser) {
		if ua != "" {
			b.userAgent = ua
		}
	}
}

// WithMaxResults caps offers read from one page.
func WithMaxResults(n int) Option {
	return func(b *Browser) {
		if n > 0 {
			b.maxResults = n
		}
	}
}

// WithExecPath points at a specific Chrome binary.
func WithExecPath(path string) Option {
	return func(b *Browser) {
		b.execPath = path
	}
}

// WithWaitSelector waits for selector instead of the site's result item
// before reading the page.
func WithWaitSelector(selector string) Option {
	return func(b *Browser) {
		if selector != "" {
			b.waitSelector = selector
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Browser) {
		if l != nil {
			b.log = l
		}
	}
}
