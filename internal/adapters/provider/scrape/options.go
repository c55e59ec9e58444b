package scrape

import (
	"time"

	"github.com/okian/neuroshop/pkg/logger"
)

const (
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultTimeout    = 10 * time.Second
	defaultMaxResults = 10
)

// Option applies a configuration option to a Scraper.
type Option func(*Scraper)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTimeout bounds a page request when ctx carries no earlier deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxResults caps offers read from one page.
func WithMaxResults(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.log = l
		}
	}
}
