package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/neuroshop/internal/adapters/provider"
	"github.com/okian/neuroshop/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlan(t *testing.T) {
	Convey("Given the default plan", t, func() {
		plan := provider.DefaultPlan()

		Convey("When the category is vegetables", func() {
			ids := plan.For(model.CategoryVegetables)

			Convey("Then grocery stores are added after the base providers", func() {
				So(ids, ShouldResemble, []string{provider.Amazon, provider.Flipkart, provider.BigBasket, provider.JioMart})
			})
		})

		Convey("When the category is electronics", func() {
			ids := plan.For(model.CategoryElectronics)

			Convey("Then only the base providers are used", func() {
				So(ids, ShouldResemble, []string{provider.Amazon, provider.Flipkart})
			})
		})

		Convey("Then All lists every provider once", func() {
			So(plan.All(), ShouldResemble, []string{provider.Amazon, provider.Flipkart, provider.BigBasket, provider.JioMart})
		})
	})

	Convey("Given a plan repeating a base provider as supplemental", t, func() {
		plan := provider.Plan{
			Base:         []string{"a"},
			Supplemental: map[model.Category][]string{model.CategoryFood: {"a", "b"}},
		}

		Convey("Then it appears once", func() {
			So(plan.For(model.CategoryFood), ShouldResemble, []string{"a", "b"})
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry missing one planned provider", t, func() {
		reg := provider.NewRegistry(
			static(provider.Amazon, 0),
			static(provider.Flipkart, 0),
			static(provider.BigBasket, 0),
		)

		Convey("When selecting for vegetables", func() {
			got := reg.Select(context.Background(), provider.DefaultPlan(), model.CategoryVegetables)

			Convey("Then unknown providers are skipped and order is kept", func() {
				So(provider.Names(got), ShouldResemble, []string{provider.Amazon, provider.Flipkart, provider.BigBasket})
			})
		})

		Convey("When re-registering a name", func() {
			reg.Register(failing(provider.Amazon))
			p, ok := reg.Get(provider.Amazon)

			Convey("Then the new provider replaces the old one in place", func() {
				So(ok, ShouldBeTrue)
				_, err := p.FetchOffers(context.Background(), "x")
				So(err, ShouldNotBeNil)
				So(reg.Names(), ShouldResemble, []string{provider.Amazon, provider.Flipkart, provider.BigBasket})
			})
		})
	})
}

func TestWithFallback(t *testing.T) {
	Convey("Given a primary provider with a fallback", t, func() {
		ctx := context.Background()

		Convey("When the primary answers", func() {
			p := provider.WithFallback(static("amazon", 0, "real"), static("catalog", 0, "mock"))
			offers, err := p.FetchOffers(ctx, "x")

			Convey("Then its offers are used", func() {
				So(err, ShouldBeNil)
				So(offers[0].Title, ShouldEqual, "real")
				So(p.Name(), ShouldEqual, "amazon")
			})
		})

		Convey("When the primary fails", func() {
			p := provider.WithFallback(failing("amazon"), static("catalog", 0, "mock"))
			offers, err := p.FetchOffers(ctx, "x")

			Convey("Then the fallback offers are used", func() {
				So(err, ShouldBeNil)
				So(offers[0].Title, ShouldEqual, "mock")
			})
		})

		Convey("When the primary finds nothing", func() {
			p := provider.WithFallback(static("amazon", 0), static("catalog", 0, "mock"))
			offers, _ := p.FetchOffers(ctx, "x")

			Convey("Then the fallback offers are used", func() {
				So(offers, ShouldHaveLength, 1)
			})
		})

		Convey("When both fail", func() {
			p := provider.WithFallback(failing("amazon"), failing("catalog"))
			_, err := p.FetchOffers(ctx, "x")

			Convey("Then the primary error is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Unwrap(err), ShouldBeNil)
			})
		})
	})
}
