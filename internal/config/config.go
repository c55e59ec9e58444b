// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Durations are stored as integer milliseconds or seconds so they map
//   cleanly to env vars; accessor methods convert them.
package config

import (
	"context"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SearchCacheTTLSec is how long an aggregated search response stays cached.
	SearchCacheTTLSec int `koanf:"search_cache_ttl_sec"`

	// ClassifierCacheTTLSec is how long classifier answers stay cached.
	ClassifierCacheTTLSec int `koanf:"classifier_cache_ttl_sec"`

	// ProviderTimeoutMS bounds a single provider call.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// GatewayTimeoutMS bounds the whole provider fan-out.
	GatewayTimeoutMS int `koanf:"gateway_timeout_ms"`

	// PipelineTimeoutMS bounds a complete search request.
	PipelineTimeoutMS int `koanf:"pipeline_timeout_ms"`

	ClassifierTimeoutMS int `koanf:"classifier_timeout_ms"`
	EnrichTimeoutMS     int `koanf:"enrich_timeout_ms"`

	// SimilarityThreshold is the title similarity above which two offers may be duplicates.
	SimilarityThreshold float64 `koanf:"similarity_threshold"`

	// PriceTolerance is the relative price gap below which two offers may be duplicates.
	PriceTolerance float64 `koanf:"price_tolerance"`

	// MaxQueryLength caps the query length in runes.
	MaxQueryLength int `koanf:"max_query_length"`

	// UseMockData backs every provider with the synthetic catalog when it errors or returns nothing.
	UseMockData bool `koanf:"use_mock_data"`

	// BrowserProviders lists provider names fetched through headless Chrome instead of plain HTTP.
	BrowserProviders []string `koanf:"browser_providers"`

	// ScrapeMaxResults caps offers taken from one provider page.
	ScrapeMaxResults int `koanf:"scrape_max_results"`

	// UserAgent is sent by the scraping providers.
	UserAgent string `koanf:"user_agent"`

	// WarmupQueries are searched in the background at startup.
	WarmupQueries []string `koanf:"warmup_queries"`

	WarmupWorkers   int `koanf:"warmup_workers"`
	WarmupQueueSize int `koanf:"warmup_queue_size"`
}

// New creates a Config populated with defaults. Context is accepted first to
// match the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		SearchCacheTTLSec:     300,
		ClassifierCacheTTLSec: 600,
		ProviderTimeoutMS:     8_000,
		GatewayTimeoutMS:      12_000,
		PipelineTimeoutMS:     15_000,
		ClassifierTimeoutMS:   2_000,
		EnrichTimeoutMS:       3_000,
		SimilarityThreshold:   0.8,
		PriceTolerance:        0.10,
		MaxQueryLength:        200,
		UseMockData:           true,
		BrowserProviders:      nil,
		ScrapeMaxResults:      10,
		UserAgent:             "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		WarmupQueries:         []string{"iphone", "laptop", "tomato", "rice"},
		WarmupWorkers:         min(runtime.NumCPU(), 4),
		WarmupQueueSize:       64,
	}
}

func ms(n int) time.Duration  { return time.Duration(n) * time.Millisecond }
func sec(n int) time.Duration { return time.Duration(n) * time.Second }

// SearchCacheTTL returns the search cache TTL.
func (c *Config) SearchCacheTTL() time.Duration { return sec(c.SearchCacheTTLSec) }

// ClassifierCacheTTL returns the classifier cache TTL.
func (c *Config) ClassifierCacheTTL() time.Duration { return sec(c.ClassifierCacheTTLSec) }

// ProviderTimeout returns the per-provider call timeout.
func (c *Config) ProviderTimeout() time.Duration { return ms(c.ProviderTimeoutMS) }

// GatewayTimeout returns the fan-out deadline.
func (c *Config) GatewayTimeout() time.Duration { return ms(c.GatewayTimeoutMS) }

// PipelineTimeout returns the whole-request deadline.
func (c *Config) PipelineTimeout() time.Duration { return ms(c.PipelineTimeoutMS) }

// ClassifierTimeout returns the per-stage classifier timeout.
func (c *Config) ClassifierTimeout() time.Duration { return ms(c.ClassifierTimeoutMS) }

// EnrichTimeout returns the enrichment timeout.
func (c *Config) EnrichTimeout() time.Duration { return ms(c.EnrichTimeoutMS) }
