package api

import (
	"errors"
	"net/http"

	service "github.com/okian/neuroshop/internal/app"
	"github.com/okian/neuroshop/pkg/logger"
)

// SearchHandler handles search requests.
type SearchHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies, log logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, log: log}
}

type searchRequest struct {
	Query *string `json:"query"`
}

// HandleSearch handles POST /api/search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if !requireMethod(op, w, r, http.MethodPost) {
		return
	}

	var req searchRequest
	if err := decodeJSON(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Query == nil {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("query is required")))
		return
	}

	resp, err := h.deps.Search(r.Context(), *req.Query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		h.log.Error(r.Context(), "search failed", logger.Error(err))
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
