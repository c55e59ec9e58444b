package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/neuroshop/internal/adapters/provider"
	service "github.com/okian/neuroshop/internal/app"
	"github.com/okian/neuroshop/internal/domain/classify"
	"github.com/okian/neuroshop/internal/domain/model"
)

// recorder is a provider that serves fixed offers and remembers its calls.
type recorder struct {
	name   string
	offers []model.Offer
	err    error
	delay  time.Duration

	mu    sync.Mutex
	terms []string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) FetchOffers(ctx context.Context, term string) ([]model.Offer, error) {
	r.mu.Lock()
	r.terms = append(r.terms, term)
	r.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.offers, nil
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terms)
}

func (r *recorder) lastTerm() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.terms) == 0 {
		return ""
	}
	return r.terms[len(r.terms)-1]
}

func offer(source, title string, price float64) model.Offer {
	return model.Offer{Source: source, Title: title, Price: price, URL: "https://" + source + ".example/p"}
}

type stores struct {
	amazon, flipkart, bigbasket, jiomart *recorder
}

func newStores() stores {
	return stores{
		amazon: &recorder{name: provider.Amazon, offers: []model.Offer{
			offer(provider.Amazon, "Apple iPhone 15 (128GB) Black", 79900),
			offer(provider.Amazon, "Apple iPhone 15 Plus (128GB)", 89900),
		}},
		flipkart: &recorder{name: provider.Flipkart, offers: []model.Offer{
			offer(provider.Flipkart, "Apple iPhone 15 (128GB) - Black", 78999),
			offer(provider.Flipkart, "", 100),
		}},
		bigbasket: &recorder{name: provider.BigBasket, offers: []model.Offer{
			offer(provider.BigBasket, "Fresho Tomato Hybrid 1 kg", 40),
		}},
		jiomart: &recorder{name: provider.JioMart, offers: []model.Offer{
			offer(provider.JioMart, "Tomato Local 1 kg", 35),
		}},
	}
}

func (s stores) registry() *provider.Registry {
	return provider.NewRegistry(s.amazon, s.flipkart, s.bigbasket, s.jiomart)
}

// brokenClassifier fails every call.
type brokenClassifier struct{}

func (brokenClassifier) SearchTerm(context.Context, string) (string, error) {
	return "", errors.New("model unavailable")
}

func (brokenClassifier) Category(context.Context, string) (model.Category, error) {
	return model.CategoryGeneral, errors.New("model unavailable")
}

// brokenEnricher fails every call.
type brokenEnricher struct{}

func (brokenEnricher) Describe(context.Context, string, []model.Offer, *model.PriceSummary) (*model.ProductInfo, error) {
	return nil, errors.New("quota exceeded")
}

func TestSearch_Validation(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New(service.WithRegistry(newStores().registry()), service.WithMaxQueryLength(20))
		ctx := context.Background()

		cases := []string{"", "   ", strings.Repeat("x", 21)}
		for _, q := range cases {
			_, err := svc.Search(ctx, q)
			So(errors.Is(err, service.ErrInvalidQuery), ShouldBeTrue)
		}

		Convey("A query at the limit is accepted", func() {
			resp, err := svc.Search(ctx, strings.Repeat("x", 20))
			So(err, ShouldBeNil)
			So(resp, ShouldNotBeNil)
		})

		Convey("Rejected queries are not counted", func() {
			So(svc.GetStats(ctx).TotalSearches, ShouldEqual, 0)
		})
	})
}

func TestSearch_Pipeline(t *testing.T) {
	Convey("Given a service over fake stores", t, func() {
		st := newStores()
		svc := service.New(service.WithRegistry(st.registry()))
		ctx := context.Background()

		Convey("When searching for electronics", func() {
			resp, err := svc.Search(ctx, "best iphone 15 under 80k")
			So(err, ShouldBeNil)

			Convey("Then only the base providers are queried with the rewritten term", func() {
				So(resp.Category, ShouldEqual, model.CategoryElectronics)
				So(resp.SearchTerm, ShouldEqual, "iphone 15")
				So(st.amazon.lastTerm(), ShouldEqual, "iphone 15")
				So(st.bigbasket.calls(), ShouldEqual, 0)
				So(st.jiomart.calls(), ShouldEqual, 0)
				So(resp.Metadata.ProvidersQueried, ShouldResemble, []string{provider.Amazon, provider.Flipkart})
				So(resp.Metadata.ProvidersSucceeded, ShouldEqual, 2)
			})

			Convey("Then invalid offers and near-duplicates are dropped", func() {
				So(resp.Count, ShouldEqual, 2)
				So(resp.Results[0].Title, ShouldEqual, "Apple iPhone 15 (128GB) Black")
				So(resp.Results[0].Source, ShouldEqual, provider.Amazon)
				So(resp.Results[1].Title, ShouldEqual, "Apple iPhone 15 Plus (128GB)")
			})

			Convey("Then offers are ranked with savings", func() {
				So(resp.Results[0].Rank, ShouldEqual, 1)
				So(resp.Results[0].IsCheapest, ShouldBeTrue)
				So(resp.Results[1].Rank, ShouldEqual, 2)
				So(*resp.Results[1].SavingsAmt, ShouldEqual, 10000)
				So(resp.Platforms, ShouldResemble, []string{provider.Amazon})
			})

			Convey("Then the price analysis and product info are filled", func() {
				So(resp.PriceAnalysis, ShouldNotBeNil)
				So(resp.PriceAnalysis.Lowest, ShouldEqual, 79900)
				So(resp.PriceAnalysis.Highest, ShouldEqual, 89900)
				So(resp.ProductInfo, ShouldNotBeNil)
				So(resp.ProductInfo.Generated, ShouldBeTrue)
				So(resp.ProductInfo.Category, ShouldEqual, model.CategoryElectronics)
				So(resp.Metadata.RequestID, ShouldNotBeEmpty)
				So(resp.Metadata.CacheHit, ShouldBeFalse)
				So(resp.Metadata.Partial, ShouldBeFalse)
			})
		})

		Convey("When searching for vegetables", func() {
			resp, err := svc.Search(ctx, "tomato")
			So(err, ShouldBeNil)

			Convey("Then the grocery stores are added after the base providers", func() {
				So(resp.Category, ShouldEqual, model.CategoryVegetables)
				So(resp.Metadata.ProvidersQueried, ShouldResemble, []string{
					provider.Amazon, provider.Flipkart, provider.BigBasket, provider.JioMart,
				})
				So(st.bigbasket.calls(), ShouldEqual, 1)
				So(st.jiomart.calls(), ShouldEqual, 1)
				So(resp.Results[0].Source, ShouldEqual, provider.JioMart)
				So(resp.Results[0].Price, ShouldEqual, 35)
			})
		})

		Convey("When the same query is repeated", func() {
			first, err := svc.Search(ctx, "iphone 15")
			So(err, ShouldBeNil)
			second, err := svc.Search(ctx, "  IPHONE   15 ")
			So(err, ShouldBeNil)

			Convey("Then the second answer comes from the cache", func() {
				So(st.amazon.calls(), ShouldEqual, 1)
				So(second.Metadata.CacheHit, ShouldBeTrue)
				So(second.Metadata.RequestID, ShouldNotEqual, first.Metadata.RequestID)
				So(second.Query, ShouldEqual, "IPHONE   15")
				So(first.Query, ShouldEqual, "iphone 15")
				So(second.Metadata.Timestamp, ShouldHappenOnOrAfter, first.Metadata.Timestamp)
				So(second.Results, ShouldResemble, first.Results)

				stats := svc.GetStats(ctx)
				So(stats.TotalSearches, ShouldEqual, 2)
				So(stats.CacheHits, ShouldEqual, 1)
				So(stats.CacheHitRate, ShouldEqual, 0.5)
				So(stats.SearchCacheSize, ShouldEqual, 1)
			})

			Convey("Then clearing the cache forces a fresh search", func() {
				svc.ClearCache(ctx)
				So(svc.GetStats(ctx).SearchCacheSize, ShouldEqual, 0)
				So(svc.GetStats(ctx).ClassifierEntries, ShouldEqual, 0)

				resp, err := svc.Search(ctx, "iphone 15")
				So(err, ShouldBeNil)
				So(resp.Metadata.CacheHit, ShouldBeFalse)
				So(st.amazon.calls(), ShouldEqual, 2)
			})
		})
	})
}

func TestSearch_Degradation(t *testing.T) {
	Convey("Given providers that all fail", t, func() {
		st := newStores()
		st.amazon.err = errors.New("503")
		st.flipkart.err = errors.New("captcha")
		svc := service.New(service.WithRegistry(st.registry()))
		ctx := context.Background()

		resp, err := svc.Search(ctx, "iphone")

		Convey("Then the response is empty but not an error", func() {
			So(err, ShouldBeNil)
			So(resp.Results, ShouldBeEmpty)
			So(resp.Count, ShouldEqual, 0)
			So(resp.PriceAnalysis, ShouldBeNil)
			So(resp.ProductInfo, ShouldBeNil)
			So(resp.Metadata.ProvidersSucceeded, ShouldEqual, 0)
			So(resp.Metadata.ProviderOutcomes[0].Status, ShouldEqual, model.StatusFailure)
		})

		Convey("Then the empty answer is not cached", func() {
			So(svc.GetStats(ctx).SearchCacheSize, ShouldEqual, 0)
			_, _ = svc.Search(ctx, "iphone")
			So(st.amazon.calls(), ShouldEqual, 2)
		})
	})

	Convey("Given a failing classifier and enricher", t, func() {
		st := newStores()
		svc := service.New(
			service.WithRegistry(st.registry()),
			service.WithClassifier(brokenClassifier{}),
			service.WithEnricher(brokenEnricher{}),
		)

		resp, err := svc.Search(context.Background(), "iphone 15")

		Convey("Then the raw query and general category are used", func() {
			So(err, ShouldBeNil)
			So(resp.SearchTerm, ShouldEqual, "iphone 15")
			So(resp.Category, ShouldEqual, model.CategoryGeneral)
			So(st.amazon.lastTerm(), ShouldEqual, "iphone 15")
		})

		Convey("Then the templated product info is returned", func() {
			So(resp.ProductInfo, ShouldNotBeNil)
			So(resp.ProductInfo.Generated, ShouldBeFalse)
			So(resp.ProductInfo.ProductName, ShouldEqual, "iphone 15")
			So(resp.ProductInfo.Category, ShouldEqual, model.CategoryGeneral)
		})
	})

	Convey("Given a classifier slower than its timeout", t, func() {
		svc := service.New(
			service.WithRegistry(newStores().registry()),
			service.WithClassifier(classify.NewKeyword(classify.WithLatency(time.Second))),
			service.WithClassifierTimeout(20*time.Millisecond),
		)

		start := time.Now()
		resp, err := svc.Search(context.Background(), "cheap iphone")

		So(err, ShouldBeNil)
		So(time.Since(start), ShouldBeLessThan, 500*time.Millisecond)
		So(resp.SearchTerm, ShouldEqual, "cheap iphone")
		So(resp.Category, ShouldEqual, model.CategoryGeneral)
	})

	Convey("Given a provider slower than the pipeline deadline", t, func() {
		st := newStores()
		st.flipkart.delay = 5 * time.Second
		svc := service.New(
			service.WithRegistry(st.registry()),
			service.WithPipelineTimeout(100*time.Millisecond),
		)
		ctx := context.Background()

		start := time.Now()
		resp, err := svc.Search(ctx, "iphone 15")

		Convey("Then the partial result is returned in time and flagged", func() {
			So(err, ShouldBeNil)
			So(time.Since(start), ShouldBeLessThan, time.Second)
			So(resp.Metadata.Partial, ShouldBeTrue)
			So(resp.Count, ShouldEqual, 2)
			So(resp.Metadata.ProvidersSucceeded, ShouldEqual, 1)
			So(resp.Metadata.ProviderOutcomes[1].Status, ShouldEqual, model.StatusTimeout)
		})

		Convey("Then the partial result is not cached", func() {
			So(svc.GetStats(ctx).SearchCacheSize, ShouldEqual, 0)
		})
	})

	Convey("Given a caller that goes away mid fan-out", t, func() {
		st := newStores()
		st.flipkart.delay = 300 * time.Millisecond
		svc := service.New(service.WithRegistry(st.registry()))

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)
		defer cancel()

		resp, err := svc.Search(ctx, "iphone 15")

		Convey("Then the cut-down answer is flagged partial", func() {
			So(err, ShouldBeNil)
			So(resp.Metadata.Partial, ShouldBeTrue)
			So(resp.Platforms, ShouldResemble, []string{provider.Amazon})
		})

		Convey("Then the next caller gets a fresh search instead of the cut-down answer", func() {
			So(svc.GetStats(context.Background()).SearchCacheSize, ShouldEqual, 0)

			again, err := svc.Search(context.Background(), "iphone 15")
			So(err, ShouldBeNil)
			So(again.Metadata.CacheHit, ShouldBeFalse)
			So(again.Metadata.Partial, ShouldBeFalse)
			So(st.flipkart.calls(), ShouldEqual, 2)
		})
	})
}
