// Package swagger serves the API reference page and its OpenAPI document.
package swagger

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	scalargo "github.com/bdpiprava/scalar-go"

	"github.com/okian/neuroshop/pkg/logger"
)

// ErrServe is returned when the reference page cannot be rendered.
var ErrServe = errors.New("api docs serve failed")

// SpecPath is where the embedded OpenAPI document is served.
const SpecPath = "/openapi.yaml"

// Register attaches the reference page and the OpenAPI document routes to mux.
//
//	GET /api-docs     -> Scalar API reference
//	GET /openapi.yaml -> embedded OpenAPI document
func Register(ctx context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	log := logger.NamedOrNop("swagger")

	page, renderErr := scalargo.NewV2(
		scalargo.WithSpecURL(SpecPath),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("neuroshop price aggregation API"),
		),
	)
	if renderErr != nil {
		renderErr = fmt.Errorf("%w: %w", ErrServe, renderErr)
		log.Error(ctx, "api reference unavailable", logger.Error(renderErr))
	}

	mux.HandleFunc("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		if renderErr != nil {
			http.Error(w, renderErr.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	mux.HandleFunc(SpecPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}
