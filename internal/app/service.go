// Package service wires the search pipeline together and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/neuroshop/internal/adapters/mq/queue"
	"github.com/okian/neuroshop/internal/adapters/mq/worker"
	"github.com/okian/neuroshop/internal/adapters/provider"
	"github.com/okian/neuroshop/internal/adapters/provider/catalog"
	"github.com/okian/neuroshop/internal/domain/cache"
	"github.com/okian/neuroshop/internal/domain/classify"
	"github.com/okian/neuroshop/internal/domain/dedupe"
	"github.com/okian/neuroshop/internal/domain/enrich"
	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
)

const maxDefaultWorkers = 4

// Service aggregates offers across providers and caches the answers.
type Service struct {
	mu sync.RWMutex

	registry   *provider.Registry
	plan       provider.Plan
	gateway    *provider.Gateway
	classifier classify.Classifier
	enricher   enrich.Enricher
	deduper    *dedupe.Deduper

	searchCache     *cache.TTL[[]byte]
	classifierCache *cache.TTL[string]

	searchTTL         time.Duration
	classifierTTL     time.Duration
	providerTimeout   time.Duration
	gatewayTimeout    time.Duration
	pipelineTimeout   time.Duration
	classifierTimeout time.Duration
	enrichTimeout     time.Duration
	maxQueryLength    int

	workerCount int
	queueSize   int
	jobs        *queue.InMemoryQueue
	pool        *worker.Pool

	totalSearches atomic.Int64
	cacheHits     atomic.Int64
	startedAt     time.Time
	started       bool

	logger logger.Logger
}

// New constructs a Service. Without WithRegistry every provider of the plan
// is served from the synthetic catalog.
func New(opts ...Option) *Service {
	s := &Service{
		plan:              provider.DefaultPlan(),
		searchTTL:         DefaultSearchCacheTTL,
		classifierTTL:     DefaultClassifierCacheTTL,
		providerTimeout:   provider.DefaultProviderTimeout,
		gatewayTimeout:    provider.DefaultGlobalTimeout,
		pipelineTimeout:   DefaultPipelineTimeout,
		classifierTimeout: DefaultClassifierTimeout,
		enrichTimeout:     DefaultEnrichTimeout,
		maxQueryLength:    DefaultMaxQueryLength,
		workerCount:       min(runtime.NumCPU(), maxDefaultWorkers),
		queueSize:         DefaultWarmupQueueSize,
		startedAt:         time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.NamedOrNop("service")
	}
	if s.registry == nil {
		s.registry = catalogRegistry(s.plan)
	}
	if s.classifier == nil {
		s.classifier = classify.NewKeyword()
	}
	if s.enricher == nil {
		s.enricher = enrich.NewTemplate()
	}
	if s.deduper == nil {
		s.deduper = dedupe.New()
	}

	s.searchCache = cache.New[[]byte](cache.WithName("search"), cache.WithDefaultTTL(s.searchTTL))
	s.classifierCache = cache.New[string](cache.WithName("classifier"), cache.WithDefaultTTL(s.classifierTTL))
	s.classifier = classify.NewCached(s.classifier, s.classifierCache, s.classifierTTL)
	s.gateway = provider.NewGateway(
		provider.WithProviderTimeout(s.providerTimeout),
		provider.WithGlobalTimeout(s.gatewayTimeout),
	)
	return s
}

func catalogRegistry(plan provider.Plan) *provider.Registry {
	r := provider.NewRegistry()
	for _, name := range plan.All() {
		r.Register(catalog.New(name))
	}
	return r
}

// Start launches the warm-up workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "search service started",
		logger.Strings("providers", s.registry.Names()),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
	)
	return nil
}

// Stop drains the warm-up workers and drops every cached entry.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	var err error
	if s.pool != nil {
		err = s.pool.Shutdown(ctx)
	}
	s.searchCache.Clear()
	s.classifierCache.Clear()

	s.started = false
	s.logger.Info(ctx, "search service stopped")
	return err
}

// Warm enqueues background searches that pre-populate the cache.
// It returns the number of accepted queries; ErrQueueFull reports that at
// least one query was rejected.
func (s *Service) Warm(ctx context.Context, queries []string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, ErrNotStarted
	}

	accepted := 0
	for _, q := range queries {
		if _, err := s.validate(q); err != nil {
			s.logger.Debug(ctx, "skipping invalid warm-up query", logger.String("query", q))
			continue
		}
		job := model.WarmupJob{ID: uuid.NewString(), Query: q, Enqueued: time.Now()}
		if !s.jobs.Enqueue(ctx, job) {
			return accepted, fmt.Errorf("warm %d of %d queries: %w", accepted, len(queries), ErrQueueFull)
		}
		accepted++
	}
	return accepted, nil
}

// ClearCache drops cached responses and classifier answers.
func (s *Service) ClearCache(ctx context.Context) {
	searches := s.searchCache.Len()
	s.searchCache.Clear()
	s.classifierCache.Clear()
	s.logger.Info(ctx, "cache cleared", logger.Int("searches", searches))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(_ context.Context) model.Stats {
	total := s.totalSearches.Load()
	hits := s.cacheHits.Load()

	var rate float64
	if total > 0 {
		rate = float64(hits) / float64(total)
	}

	return model.Stats{
		TotalSearches:     total,
		CacheHits:         hits,
		CacheHitRate:      rate,
		SearchCacheSize:   s.searchCache.Len(),
		ClassifierEntries: s.classifierCache.Len(),
		Providers:         s.registry.Names(),
		UptimeSec:         int64(time.Since(s.startedAt).Seconds()),
	}
}

// QueueLen returns the number of pending warm-up jobs.
func (s *Service) QueueLen(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.jobs == nil {
		return 0
	}
	return s.jobs.Len(ctx)
}
