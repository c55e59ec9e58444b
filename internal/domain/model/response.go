package model

import "time"

// ProductInfo is the optional descriptive block attached to a response.
type ProductInfo struct {
	ProductName    string   `json:"productName"`
	Category       Category `json:"category"`
	KeyFeatures    []string `json:"keyFeatures"`
	Description    string   `json:"description"`
	PriceAnalysis  string   `json:"priceAnalysis"`
	Recommendation string   `json:"recommendation"`
	Generated      bool     `json:"generated"`
}

// Metadata carries per-request diagnostics.
type Metadata struct {
	RequestID          string            `json:"requestId"`
	ProcessingTimeMS   int64             `json:"processingTimeMs"`
	CacheHit           bool              `json:"cacheHit"`
	Timestamp          time.Time         `json:"timestamp"`
	ProvidersQueried   []string          `json:"providersQueried"`
	ProvidersSucceeded int               `json:"providersSucceeded"`
	ProviderOutcomes   []ProviderOutcome `json:"providerOutcomes"`
	Partial            bool              `json:"partial"`
}

// SearchResponse is the aggregated answer to one query.
type SearchResponse struct {
	Query         string        `json:"query"`
	SearchTerm    string        `json:"searchTerm"`
	Category      Category      `json:"category"`
	Results       []Offer       `json:"results"`
	Count         int           `json:"count"`
	PriceAnalysis *PriceSummary `json:"priceAnalysis"`
	ProductInfo   *ProductInfo  `json:"productInfo"`
	Platforms     []string      `json:"platforms"`
	Metadata      Metadata      `json:"metadata"`
}

// Stats are service counters.
type Stats struct {
	TotalSearches     int64    `json:"totalSearches"`
	CacheHits         int64    `json:"cacheHits"`
	CacheHitRate      float64  `json:"cacheHitRate"`
	SearchCacheSize   int      `json:"searchCacheSize"`
	ClassifierEntries int      `json:"classifierCacheSize"`
	Providers         []string `json:"providers"`
	UptimeSec         int64    `json:"uptimeSec"`
}

// WarmupJob asks the background workers to pre-populate the cache for a query.
type WarmupJob struct {
	ID       string    `json:"id"`
	Query    string    `json:"query"`
	Enqueued time.Time `json:"enqueued"`
}
