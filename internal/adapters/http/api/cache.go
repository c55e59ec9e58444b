package api

import (
	"errors"
	"net/http"

	service "github.com/okian/neuroshop/internal/app"
	"github.com/okian/neuroshop/pkg/logger"
)

const maxWarmQueries = 50

// CacheHandler handles cache maintenance requests.
type CacheHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps Dependencies, log logger.Logger) *CacheHandler {
	return &CacheHandler{deps: deps, log: log}
}

type warmRequest struct {
	Queries []string `json:"queries"`
}

type warmResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// HandleClear handles POST /api/cache/clear requests.
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if !requireMethod("api.cache_clear", w, r, http.MethodPost) {
		return
	}
	h.deps.ClearCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// HandleWarm handles POST /api/cache/warm requests. Jobs run in the
// background; a full queue is reported as 429 when nothing was accepted.
func (h *CacheHandler) HandleWarm(w http.ResponseWriter, r *http.Request) {
	const op = "api.cache_warm"
	if !requireMethod(op, w, r, http.MethodPost) {
		return
	}

	var req warmRequest
	if err := decodeJSON(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	switch {
	case len(req.Queries) == 0:
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("queries must not be empty")))
		return
	case len(req.Queries) > maxWarmQueries:
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("too many queries")))
		return
	}

	accepted, err := h.deps.Warm(r.Context(), req.Queries)
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, WrapKind(op, ErrUnavailable, err))
		return
	case errors.Is(err, service.ErrQueueFull) && accepted == 0:
		writeError(w, WrapKind(op, ErrBackpressure, err))
		return
	case err != nil && !errors.Is(err, service.ErrQueueFull):
		h.log.Error(r.Context(), "warm-up failed", logger.Error(err))
		writeError(w, Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusAccepted, warmResponse{
		Status:   "accepted",
		Accepted: accepted,
		Rejected: len(req.Queries) - accepted,
	})
}
