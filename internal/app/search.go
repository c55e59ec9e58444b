package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/neuroshop/internal/adapters/provider"
	"github.com/okian/neuroshop/internal/domain/analysis"
	"github.com/okian/neuroshop/internal/domain/cache"
	"github.com/okian/neuroshop/internal/domain/enrich"
	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/internal/domain/ranking"
	"github.com/okian/neuroshop/pkg/logger"
	"github.com/okian/neuroshop/pkg/metrics"
)

// Search answers a query from the cache or by running the full pipeline.
// Only an invalid query produces an error; every other failure degrades the
// response instead.
func (s *Service) Search(ctx context.Context, query string) (*model.SearchResponse, error) {
	start := time.Now()

	q, err := s.validate(query)
	if err != nil {
		metrics.RecordSearch(metrics.ResultRejected)
		return nil, err
	}
	s.totalSearches.Add(1)

	key := cache.SearchKey(q)
	if resp, ok := s.cached(ctx, key); ok {
		s.cacheHits.Add(1)
		metrics.RecordSearch(metrics.ResultHit)
		resp.Query = q
		resp.Metadata.RequestID = uuid.NewString()
		resp.Metadata.CacheHit = true
		resp.Metadata.Timestamp = time.Now().UTC()
		resp.Metadata.ProcessingTimeMS = time.Since(start).Milliseconds()
		return resp, nil
	}
	metrics.RecordSearch(metrics.ResultMiss)

	resp := s.run(ctx, q, start)

	if len(resp.Results) > 0 && !resp.Metadata.Partial {
		s.store(ctx, key, resp)
	}

	metrics.RecordSearchLatency(float64(resp.Metadata.ProcessingTimeMS))
	metrics.RecordResultSize(resp.Count)
	s.logger.Info(ctx, "search completed",
		logger.String("request_id", resp.Metadata.RequestID),
		logger.String("query", q),
		logger.String("search_term", resp.SearchTerm),
		logger.String("category", resp.Category.String()),
		logger.Int("offers", resp.Count),
		logger.Int("providers_ok", resp.Metadata.ProvidersSucceeded),
		logger.Bool("partial", resp.Metadata.Partial),
		logger.Duration("took", time.Since(start)),
	)
	return resp, nil
}

func (s *Service) validate(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("query is required: %w", ErrInvalidQuery)
	}
	if n := utf8.RuneCountInString(q); n > s.maxQueryLength {
		return "", fmt.Errorf("query is %d characters, limit is %d: %w", n, s.maxQueryLength, ErrInvalidQuery)
	}
	return q, nil
}

func (s *Service) cached(ctx context.Context, key string) (*model.SearchResponse, bool) {
	raw, ok := s.searchCache.Get(key)
	if !ok {
		return nil, false
	}
	var resp model.SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn(ctx, "dropping unreadable cache entry", logger.String("key", key), logger.Error(err))
		s.searchCache.Delete(key)
		return nil, false
	}
	return &resp, true
}

func (s *Service) store(ctx context.Context, key string, resp *model.SearchResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn(ctx, "response not cached", logger.String("key", key), logger.Error(err))
		return
	}
	s.searchCache.Set(key, raw, s.searchTTL)
}

// run executes classify, fan-out, normalize, rank, analyze and enrich under
// the pipeline deadline.
func (s *Service) run(parent context.Context, q string, start time.Time) *model.SearchResponse {
	ctx, cancel := context.WithTimeout(parent, s.pipelineTimeout)
	defer cancel()

	requestID := uuid.NewString()
	class := s.classify(ctx, q)

	providers := s.registry.Select(ctx, s.plan, class.Category)
	fetched := s.gateway.Fetch(ctx, class.SearchTerm, providers)

	offers, report := s.deduper.Normalize(fetched.Offers)
	metrics.RecordOffersRejected(report.Rejected)
	metrics.RecordOffersDeduplicated(report.Duplicates)
	if report.Rejected > 0 || report.Duplicates > 0 {
		s.logger.Debug(ctx, "offers normalized",
			logger.String("request_id", requestID),
			logger.Int("received", report.Received),
			logger.Int("rejected", report.Rejected),
			logger.Int("duplicates", report.Duplicates),
		)
	}

	ranked := ranking.Rank(offers)
	summary := analysis.Analyze(ranked)

	var info *model.ProductInfo
	if len(ranked) > 0 {
		info = s.describe(ctx, class, ranked, summary)
	}

	// A cancelled caller cuts the fan-out short just like the deadline does.
	partial := ctx.Err() != nil
	if partial {
		metrics.RecordPartialResult()
		msg := "search hit the pipeline deadline"
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = "search cancelled by caller"
		}
		s.logger.Warn(ctx, msg,
			logger.String("request_id", requestID),
			logger.Duration("timeout", s.pipelineTimeout),
		)
	}

	return &model.SearchResponse{
		Query:         q,
		SearchTerm:    class.SearchTerm,
		Category:      class.Category,
		Results:       ranked,
		Count:         len(ranked),
		PriceAnalysis: summary,
		ProductInfo:   info,
		Platforms:     ranking.Platforms(ranked),
		Metadata: model.Metadata{
			RequestID:          requestID,
			ProcessingTimeMS:   time.Since(start).Milliseconds(),
			Timestamp:          time.Now().UTC(),
			ProvidersQueried:   provider.Names(providers),
			ProvidersSucceeded: fetched.Succeeded(),
			ProviderOutcomes:   fetched.Outcomes,
			Partial:            partial,
		},
	}
}

// classify runs the search-term rewrite and category detection
// concurrently. Each falls back on its own: the raw query and general.
func (s *Service) classify(ctx context.Context, q string) model.Classification {
	class := model.Classification{RawQuery: q, SearchTerm: q, Category: model.CategoryGeneral}

	var eg errgroup.Group
	eg.Go(func() error {
		term, err := within(ctx, s.classifierTimeout, func(ctx context.Context) (string, error) {
			return s.classifier.SearchTerm(ctx, q)
		})
		term = strings.TrimSpace(term)
		if err != nil || term == "" {
			metrics.RecordClassifierFallback(metrics.StageSearchTerm)
			s.logger.Warn(ctx, "search term fallback", logger.String("query", q), logger.Error(err))
			return nil
		}
		class.SearchTerm = term
		return nil
	})
	eg.Go(func() error {
		cat, err := within(ctx, s.classifierTimeout, func(ctx context.Context) (model.Category, error) {
			return s.classifier.Category(ctx, q)
		})
		if err != nil {
			metrics.RecordClassifierFallback(metrics.StageCategory)
			s.logger.Warn(ctx, "category fallback", logger.String("query", q), logger.Error(err))
			return nil
		}
		class.Category = model.ParseCategory(string(cat))
		return nil
	})
	_ = eg.Wait()

	return class
}

func (s *Service) describe(ctx context.Context, class model.Classification, ranked []model.Offer, summary *model.PriceSummary) *model.ProductInfo {
	info, err := within(ctx, s.enrichTimeout, func(ctx context.Context) (*model.ProductInfo, error) {
		return s.enricher.Describe(ctx, class.SearchTerm, ranked, summary)
	})
	if err != nil || info == nil {
		metrics.RecordEnrichFallback()
		s.logger.Warn(ctx, "product info fallback", logger.String("term", class.SearchTerm), logger.Error(err))
		info = enrich.Fallback(class.SearchTerm, summary)
	}
	info.Category = class.Category
	return info
}

type outcome[T any] struct {
	v   T
	err error
}

// within runs fn under a deadline of d and returns when either fn finishes
// or the deadline passes, whichever comes first.
func within[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- outcome[T]{v: zero, err: fmt.Errorf("recovered: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome[T]{v: v, err: err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
