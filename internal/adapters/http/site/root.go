// Package site handles the root of the HTTP namespace.
package site

import (
	"context"
	"encoding/json"
	"net/http"
)

// DocsPath is where the root path redirects.
const DocsPath = "/api-docs"

// Register attaches the root handler to mux. It must be registered on "/"
// so it also catches every unknown path.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot redirects GET / to the API reference and answers any other
// unmatched path with a JSON 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		http.Redirect(w, r, DocsPath, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "not_found",
		"message": "no route for " + r.Method + " " + r.URL.Path,
	})
}
