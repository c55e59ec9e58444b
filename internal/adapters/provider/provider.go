// Package provider fans a search out to external offer sources with
// per-source and overall deadlines, degrading failed sources to empty results.
package provider

import (
	"context"

	"github.com/okian/neuroshop/internal/domain/model"
)

// Provider is one external source of offers.
type Provider interface {
	// Name is the stable identifier used in plans, logs and metrics.
	Name() string

	// FetchOffers searches the source for term. Implementations must honor ctx.
	FetchOffers(ctx context.Context, term string) ([]model.Offer, error)
}

// Func adapts a function to the Provider interface.
type Func struct {
	ID    string
	Fetch func(ctx context.Context, term string) ([]model.Offer, error)
}

// Name implements Provider.
func (f Func) Name() string { return f.ID }

// FetchOffers implements Provider.
func (f Func) FetchOffers(ctx context.Context, term string) ([]model.Offer, error) {
	return f.Fetch(ctx, term)
}

// Names returns the names of providers in order.
func Names(providers []Provider) []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.Name()
	}
	return out
}
