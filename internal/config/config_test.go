package config

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := New(context.Background())

		Convey("Then the aggregation defaults are set", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.SearchCacheTTL(), ShouldEqual, 5*time.Minute)
			So(cfg.ClassifierCacheTTL(), ShouldEqual, 10*time.Minute)
			So(cfg.ProviderTimeout(), ShouldEqual, 8*time.Second)
			So(cfg.GatewayTimeout(), ShouldEqual, 12*time.Second)
			So(cfg.PipelineTimeout(), ShouldEqual, 15*time.Second)
			So(cfg.SimilarityThreshold, ShouldEqual, 0.8)
			So(cfg.PriceTolerance, ShouldEqual, 0.10)
			So(cfg.MaxQueryLength, ShouldEqual, 200)
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("When a field is out of range", func() {
			cfg.SimilarityThreshold = 1.5

			Convey("Then validation fails with ErrInvalidConfig", func() {
				So(cfg.Validate(), ShouldWrap, ErrInvalidConfig)
			})
		})

		Convey("When a warm-up query is blank", func() {
			cfg.WarmupQueries = []string{"iphone", "  "}

			Convey("Then validation names the entry", func() {
				err := cfg.Validate()
				So(err, ShouldWrap, ErrInvalidConfig)
				So(err.Error(), ShouldContainSubstring, "warmup_queries[1]")
			})
		})

		Convey("When a browser provider is blank", func() {
			cfg.BrowserProviders = []string{""}

			Convey("Then validation fails", func() {
				So(cfg.Validate(), ShouldWrap, ErrInvalidConfig)
			})
		})

		Convey("When a timeout is zero", func() {
			cfg.GatewayTimeoutMS = 0

			Convey("Then validation fails", func() {
				So(cfg.Validate(), ShouldWrap, ErrInvalidConfig)
			})
		})
	})
}
