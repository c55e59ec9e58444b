package api

import (
	"net/http"

	"github.com/okian/neuroshop/internal/domain/model"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

type statsResponse struct {
	model.Stats
	QueueLength int `json:"queueLength"`
}

// HandleStats handles GET /api/stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod("api.stats", w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Stats:       h.deps.GetStats(r.Context()),
		QueueLength: h.deps.QueueLen(r.Context()),
	})
}
