package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "NEUROSHOP_"
	envConfigPath = "NEUROSHOP_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if NEUROSHOP_CONFIG is set
//  3. env (prefix NEUROSHOP_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// NEUROSHOP_PROVIDER_TIMEOUT_MS -> provider_timeout_ms (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The path variable is not a config field.
	k.Delete("config")

	cfg := *base
	// Decoding into a non-nil slice keeps trailing defaults; replace lists wholesale.
	if k.Exists("warmup_queries") {
		cfg.WarmupQueries = nil
	}
	if k.Exists("browser_providers") {
		cfg.BrowserProviders = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SearchCacheTTLSec <= 0:
		return fmt.Errorf("%w: search_cache_ttl_sec must be positive", ErrInvalidConfig)
	case c.ClassifierCacheTTLSec <= 0:
		return fmt.Errorf("%w: classifier_cache_ttl_sec must be positive", ErrInvalidConfig)
	case c.ProviderTimeoutMS <= 0 || c.GatewayTimeoutMS <= 0 || c.PipelineTimeoutMS <= 0:
		return fmt.Errorf("%w: provider, gateway and pipeline timeouts must be positive", ErrInvalidConfig)
	case c.ClassifierTimeoutMS <= 0 || c.EnrichTimeoutMS <= 0:
		return fmt.Errorf("%w: classifier and enrich timeouts must be positive", ErrInvalidConfig)
	case c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1:
		return fmt.Errorf("%w: similarity_threshold must be in (0, 1]", ErrInvalidConfig)
	case c.PriceTolerance < 0 || c.PriceTolerance >= 1:
		return fmt.Errorf("%w: price_tolerance must be in [0, 1)", ErrInvalidConfig)
	case c.MaxQueryLength <= 0:
		return fmt.Errorf("%w: max_query_length must be positive", ErrInvalidConfig)
	case c.ScrapeMaxResults <= 0:
		return fmt.Errorf("%w: scrape_max_results must be positive", ErrInvalidConfig)
	case c.WarmupWorkers <= 0 || c.WarmupQueueSize <= 0:
		return fmt.Errorf("%w: warmup_workers and warmup_queue_size must be positive", ErrInvalidConfig)
	}
	if err := noBlanks("warmup_queries", c.WarmupQueries); err != nil {
		return err
	}
	return noBlanks("browser_providers", c.BrowserProviders)
}

func noBlanks(field string, values []string) error {
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s[%d] is blank", ErrInvalidConfig, field, i)
		}
	}
	return nil
}
