// Package probe drives a running neuroshop server through its HTTP API and
// checks the ordering invariants of every response it gets back.
package probe

import "time"

// Config holds the probe settings.
type Config struct {
	BaseURL string        // Base URL of the service
	Queries []string      // Queries to search for
	Rounds  int           // Times each query is searched; later rounds should hit the cache
	Workers int           // Concurrent requests
	Timeout time.Duration // Per-request timeout
	Verbose bool          // Log every response
}

// DefaultQueries mixes electronics and grocery searches.
func DefaultQueries() []string {
	return []string{"iphone 15", "laptop", "tomato", "basmati rice", "bluetooth speaker", "green tea"}
}

// Report summarizes a probe run.
type Report struct {
	Searches   int
	Failed     int
	CacheHits  int
	Partial    int
	Offers     int
	Violations []string
	Duration   time.Duration
}

// OK reports whether every search succeeded without violations.
func (r *Report) OK() bool {
	return r.Failed == 0 && len(r.Violations) == 0
}
