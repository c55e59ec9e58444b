package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
)

type searchRequest struct {
	Query string `json:"query"`
}

type health struct {
	Status string `json:"status"`
}

// Run checks health, then searches every query Rounds times. Rounds run one
// after another so that later rounds can be answered from the cache; the
// queries of one round run concurrently on Workers connections.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	log := logger.NamedOrNop("probe")
	c := newClient(cfg.BaseURL, cfg.Timeout)
	start := time.Now()

	var h health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	if h.Status != "ok" {
		return nil, fmt.Errorf("health check: status %q", h.Status)
	}
	log.Info(ctx, "service is healthy", logger.String("url", cfg.BaseURL))

	var (
		mu     sync.Mutex
		report = &Report{}
	)
	record := func(resp *model.SearchResponse, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Searches++
		if err != nil {
			report.Failed++
			report.Violations = append(report.Violations, err.Error())
			return
		}
		report.Offers += resp.Count
		if resp.Metadata.CacheHit {
			report.CacheHits++
		}
		if resp.Metadata.Partial {
			report.Partial++
		}
		report.Violations = append(report.Violations, Check(resp)...)
	}

	rounds := max(cfg.Rounds, 1)
	for round := 1; round <= rounds; round++ {
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(max(cfg.Workers, 1))
		for _, q := range cfg.Queries {
			eg.Go(func() error {
				var resp model.SearchResponse
				err := c.postJSON(gctx, "/api/search", searchRequest{Query: q}, http.StatusOK, &resp)
				if err == nil && cfg.Verbose {
					log.Info(gctx, "search",
						logger.Int("round", round),
						logger.String("query", q),
						logger.Int("offers", resp.Count),
						logger.Bool("cache_hit", resp.Metadata.CacheHit),
						logger.Int("took_ms", int(resp.Metadata.ProcessingTimeMS)),
					)
				}
				if err != nil {
					record(nil, err)
					return nil
				}
				record(&resp, nil)
				return nil
			})
		}
		_ = eg.Wait()
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("probe interrupted: %w", err)
		}
	}

	report.Duration = time.Since(start)
	log.Info(ctx, "probe finished",
		logger.Int("searches", report.Searches),
		logger.Int("failed", report.Failed),
		logger.Int("cache_hits", report.CacheHits),
		logger.Int("partial", report.Partial),
		logger.Int("violations", len(report.Violations)),
		logger.Duration("took", report.Duration),
	)
	return report, nil
}
