package cache

import "time"

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	name       string
	defaultTTL time.Duration
	now        func() time.Time
}

func defaultOptions() options {
	return options{
		name:       "cache",
		defaultTTL: 5 * time.Minute,
		now:        time.Now,
	}
}

// WithName labels the cache in metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithDefaultTTL sets the TTL used when Set is called with ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.defaultTTL = ttl
		}
	}
}

// WithClock overrides the time source used for lazy expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
