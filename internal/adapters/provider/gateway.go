package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
	"github.com/okian/neuroshop/pkg/metrics"
)

// ErrPanic wraps a panic recovered from a provider.
var ErrPanic = errors.New("provider panicked")

// Result is the merged output of one fan-out.
type Result struct {
	// Offers are concatenated in provider submission order.
	Offers   []model.Offer
	Outcomes []model.ProviderOutcome
}

// Succeeded counts providers that answered without error.
func (r Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Gateway calls providers concurrently under bounded time.
type Gateway struct {
	providerTimeout time.Duration
	globalTimeout   time.Duration
	log             logger.Logger
}

// NewGateway creates a gateway with default deadlines.
func NewGateway(opts ...Option) *Gateway {
	g := &Gateway{
		providerTimeout: DefaultProviderTimeout,
		globalTimeout:   DefaultGlobalTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.NamedOrNop("gateway")
	}
	return g
}

type fetchResult struct {
	offers []model.Offer
	err    error
}

// Fetch queries every provider for term and never fails: a provider that
// errors, panics or misses its deadline contributes no offers and is
// reported in the outcomes. Fetch returns by the global deadline even if a
// provider ignores cancellation.
func (g *Gateway) Fetch(ctx context.Context, term string, providers []Provider) Result {
	ctx, cancel := context.WithTimeout(ctx, g.globalTimeout)
	defer cancel()

	offers := make([][]model.Offer, len(providers))
	outcomes := make([]model.ProviderOutcome, len(providers))

	var eg errgroup.Group
	for i, p := range providers {
		eg.Go(func() error {
			offers[i], outcomes[i] = g.call(ctx, p, term)
			return nil
		})
	}
	_ = eg.Wait()

	var merged []model.Offer
	for _, batch := range offers {
		merged = append(merged, batch...)
	}
	return Result{Offers: merged, Outcomes: outcomes}
}

func (g *Gateway) call(ctx context.Context, p Provider, term string) ([]model.Offer, model.ProviderOutcome) {
	name := p.Name()
	start := time.Now()

	pctx, cancel := context.WithTimeout(ctx, g.providerTimeout)
	defer cancel()

	// Buffered so an abandoned provider can still send and exit.
	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("%w: %v", ErrPanic, r)}
			}
		}()
		offers, err := p.FetchOffers(pctx, term)
		done <- fetchResult{offers: offers, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-pctx.Done():
		res = fetchResult{err: pctx.Err()}
	}

	elapsed := time.Since(start)
	outcome := model.ProviderOutcome{
		Provider:   name,
		Status:     model.StatusSuccess,
		OfferCount: len(res.offers),
		DurationMS: elapsed.Milliseconds(),
	}

	if res.err != nil {
		outcome.Status = model.StatusFailure
		if errors.Is(res.err, context.DeadlineExceeded) {
			outcome.Status = model.StatusTimeout
		}
		outcome.OfferCount = 0
		outcome.Error = res.err.Error()
		res.offers = nil
		g.log.Warn(ctx, "provider failed",
			logger.String("provider", name),
			logger.String("status", outcome.Status),
			logger.Duration("took", elapsed),
			logger.Error(res.err),
		)
	} else {
		g.log.Debug(ctx, "provider answered",
			logger.String("provider", name),
			logger.Int("offers", outcome.OfferCount),
			logger.Duration("took", elapsed),
		)
	}

	metrics.RecordProviderOutcome(name, outcome.Status)
	metrics.RecordProviderLatency(name, float64(elapsed.Milliseconds()))
	metrics.RecordProviderOffers(name, outcome.OfferCount)

	return res.offers, outcome
}
