// Package classify interprets raw user queries: it rewrites them into a
// clean search term and detects a coarse product category.
package classify

import (
	"context"
	"errors"

	"github.com/okian/neuroshop/internal/domain/model"
)

// ErrNoAnswer is returned when a classifier has nothing useful to say.
var ErrNoAnswer = errors.New("classifier returned no answer")

// Classifier turns a raw query into a search term and a category.
// Implementations may be slow or fail; callers fall back to the raw
// query and model.CategoryGeneral.
type Classifier interface {
	// SearchTerm rewrites raw into a term suitable for provider searches.
	SearchTerm(ctx context.Context, raw string) (string, error)

	// Category detects the product category of raw.
	Category(ctx context.Context, raw string) (model.Category, error)
}
