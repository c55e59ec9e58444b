package main

import (
	"context"
	"slices"

	"github.com/okian/neuroshop/internal/adapters/provider"
	"github.com/okian/neuroshop/internal/adapters/provider/browser"
	"github.com/okian/neuroshop/internal/adapters/provider/catalog"
	"github.com/okian/neuroshop/internal/adapters/provider/scrape"
	"github.com/okian/neuroshop/internal/config"
	"github.com/okian/neuroshop/internal/domain/dedupe"
	"github.com/okian/neuroshop/pkg/logger"
)

// buildRegistry creates one provider per known site. Sites listed in
// browser_providers are rendered with headless Chrome; with use_mock_data
// every site falls back to the synthetic catalog.
func buildRegistry(ctx context.Context, cfg *config.Config) *provider.Registry {
	log := logger.NamedOrNop("providers")
	registry := provider.NewRegistry()

	for _, site := range scrape.Sites() {
		var p provider.Provider
		kind := "scrape"
		if slices.Contains(cfg.BrowserProviders, site.Name) {
			kind = "browser"
			p = browser.New(site,
				browser.WithUserAgent(cfg.UserAgent),
				browser.WithMaxResults(cfg.ScrapeMaxResults),
			)
		} else {
			p = scrape.New(site,
				scrape.WithUserAgent(cfg.UserAgent),
				scrape.WithTimeout(cfg.ProviderTimeout()),
				scrape.WithMaxResults(cfg.ScrapeMaxResults),
			)
		}
		if cfg.UseMockData {
			p = provider.WithFallback(p, catalog.New(site.Name))
		}
		registry.Register(p)
		log.Debug(ctx, "provider registered",
			logger.String("provider", site.Name),
			logger.String("kind", kind),
			logger.Bool("mock_fallback", cfg.UseMockData),
		)
	}
	return registry
}

func newDeduper(cfg *config.Config) *dedupe.Deduper {
	return dedupe.New(
		dedupe.WithSimilarityThreshold(cfg.SimilarityThreshold),
		dedupe.WithPriceTolerance(cfg.PriceTolerance),
	)
}
