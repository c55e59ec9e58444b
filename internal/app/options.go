package service

import (
	"time"

	"github.com/okian/neuroshop/internal/adapters/provider"
	"github.com/okian/neuroshop/internal/domain/classify"
	"github.com/okian/neuroshop/internal/domain/dedupe"
	"github.com/okian/neuroshop/internal/domain/enrich"
	"github.com/okian/neuroshop/pkg/logger"
)

// Defaults for the search pipeline.
const (
	DefaultSearchCacheTTL     = 5 * time.Minute
	DefaultClassifierCacheTTL = 10 * time.Minute
	DefaultPipelineTimeout    = 15 * time.Second
	DefaultClassifierTimeout  = 2 * time.Second
	DefaultEnrichTimeout      = 3 * time.Second
	DefaultMaxQueryLength     = 200
	DefaultWarmupQueueSize    = 64
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry sets the providers the service can query.
func WithRegistry(r *provider.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithPlan sets the category to provider mapping.
func WithPlan(p provider.Plan) Option {
	return func(s *Service) {
		s.plan = p
	}
}

// WithClassifier sets the query classifier. Answers are cached by the service.
func WithClassifier(c classify.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithEnricher sets the product description generator.
func WithEnricher(e enrich.Enricher) Option {
	return func(s *Service) {
		if e != nil {
			s.enricher = e
		}
	}
}

// WithDeduper sets the offer normalizer.
func WithDeduper(d *dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithSearchCacheTTL sets how long non-empty responses are cached.
func WithSearchCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.searchTTL = d
		}
	}
}

// WithClassifierCacheTTL sets how long classifier answers are cached.
func WithClassifierCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.classifierTTL = d
		}
	}
}

// WithProviderTimeout sets the per-provider deadline.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.providerTimeout = d
		}
	}
}

// WithGatewayTimeout sets the deadline across all providers of one search.
func WithGatewayTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.gatewayTimeout = d
		}
	}
}

// WithPipelineTimeout bounds a whole search.
func WithPipelineTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pipelineTimeout = d
		}
	}
}

// WithClassifierTimeout bounds each classification call.
func WithClassifierTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.classifierTimeout = d
		}
	}
}

// WithEnrichTimeout bounds product description generation.
func WithEnrichTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.enrichTimeout = d
		}
	}
}

// WithMaxQueryLength sets the longest accepted query in runes.
func WithMaxQueryLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxQueryLength = n
		}
	}
}

// WithWorkerCount sets the number of warm-up workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize sets the warm-up queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}
