// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Search runs or replays an aggregated search.
	Search(ctx context.Context, query string) (*model.SearchResponse, error)

	// Warm enqueues background searches; it returns how many were accepted.
	Warm(ctx context.Context, queries []string) (int, error)

	ClearCache(ctx context.Context)
	GetStats(ctx context.Context) model.Stats
	QueueLen(ctx context.Context) int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	searchHandler *SearchHandler
	cacheHandler  *CacheHandler
	statsHandler  *StatsHandler
	infoHandler   *InfoHandler
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	name    string
	version string
	log     logger.Logger
}

// WithVersion sets the version reported by /api/info.
func WithVersion(v string) Option {
	return func(o *serverOptions) {
		if v != "" {
			o.version = v
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := serverOptions{name: "neuroshop", version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NamedOrNop("api")
	}

	return &Server{
		healthHandler: NewHealthHandler(),
		searchHandler: NewSearchHandler(deps, o.log),
		cacheHandler:  NewCacheHandler(deps, o.log),
		statsHandler:  NewStatsHandler(deps),
		infoHandler:   NewInfoHandler(o.name, o.version, routes),
	}
}

// routes lists every public endpoint for /api/info.
var routes = []Route{ //nolint:gochecknoglobals // fixed route table
	{http.MethodPost, "/api/search", "Search all platforms for a product"},
	{http.MethodGet, "/api/stats", "Service counters"},
	{http.MethodPost, "/api/cache/clear", "Drop cached searches"},
	{http.MethodPost, "/api/cache/warm", "Pre-populate the cache"},
	{http.MethodGet, "/api/info", "Service information"},
	{http.MethodGet, "/health", "Liveness"},
	{http.MethodGet, "/metrics", "Prometheus metrics"},
	{http.MethodGet, "/api-docs", "API reference"},
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/api/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/cache/clear", MetricsMiddleware(s.cacheHandler.HandleClear, "cache_clear"))
	mux.HandleFunc("/api/cache/warm", MetricsMiddleware(s.cacheHandler.HandleWarm, "cache_warm"))
	mux.HandleFunc("/api/info", MetricsMiddleware(s.infoHandler.HandleInfo, "info"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	msg := http.StatusText(status)
	var apiErr *Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a JSON body into v and classifies failures.
func decodeJSON(op string, r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind(op, ErrTooLarge, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

func requireMethod(op string, w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, NewKind(op, ErrMethodNotAllowed))
	return false
}
