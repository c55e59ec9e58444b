package provider

import (
	"context"

	"github.com/okian/neuroshop/internal/domain/model"
)

type withFallback struct {
	primary  Provider
	fallback Provider
}

// WithFallback answers with fallback's offers when primary fails or finds
// nothing. The combined provider keeps primary's name.
func WithFallback(primary, fallback Provider) Provider {
	return &withFallback{primary: primary, fallback: fallback}
}

func (w *withFallback) Name() string { return w.primary.Name() }

func (w *withFallback) FetchOffers(ctx context.Context, term string) ([]model.Offer, error) {
	offers, err := w.primary.FetchOffers(ctx, term)
	if err == nil && len(offers) > 0 {
		return offers, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	alt, altErr := w.fallback.FetchOffers(ctx, term)
	if altErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, altErr
	}
	return alt, nil
}
