package api

import "net/http"

// Route describes one public endpoint.
type Route struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// InfoHandler reports what the service is and what it serves.
type InfoHandler struct {
	body infoResponse
}

type infoResponse struct {
	Name      string  `json:"name"`
	Version   string  `json:"version"`
	Endpoints []Route `json:"endpoints"`
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(name, version string, endpoints []Route) *InfoHandler {
	return &InfoHandler{body: infoResponse{Name: name, Version: version, Endpoints: endpoints}}
}

// HandleInfo handles GET /api/info requests.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if !requireMethod("api.info", w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.body)
}
