package model_test

import (
	"math"
	"testing"

	"github.com/okian/neuroshop/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCategory(t *testing.T) {
	Convey("Given category text", t, func() {
		Convey("When it names a known category", func() {
			So(model.ParseCategory("vegetables"), ShouldEqual, model.CategoryVegetables)
			So(model.ParseCategory("  Electronics "), ShouldEqual, model.CategoryElectronics)
		})

		Convey("When it is unknown or empty", func() {
			So(model.ParseCategory("furniture"), ShouldEqual, model.CategoryGeneral)
			So(model.ParseCategory(""), ShouldEqual, model.CategoryGeneral)
		})
	})
}

func TestOfferValid(t *testing.T) {
	Convey("Given offers", t, func() {
		good := model.Offer{Source: "amazon", Title: "iPhone 15", Price: 79999, URL: "https://a.example/p"}

		Convey("Then a complete offer is valid", func() {
			So(good.Valid(), ShouldBeTrue)
		})

		Convey("Then non-positive or non-finite prices are invalid", func() {
			for _, p := range []float64{0, -1, math.Inf(1), math.NaN()} {
				o := good
				o.Price = p
				So(o.Valid(), ShouldBeFalse)
			}
		})

		Convey("Then blank title, url or source are invalid", func() {
			o := good
			o.Title = "   "
			So(o.Valid(), ShouldBeFalse)
			o = good
			o.URL = ""
			So(o.Valid(), ShouldBeFalse)
			o = good
			o.Source = ""
			So(o.Valid(), ShouldBeFalse)
		})
	})
}

func TestProviderOutcome(t *testing.T) {
	Convey("Given provider outcomes", t, func() {
		So(model.ProviderOutcome{Status: model.StatusSuccess}.OK(), ShouldBeTrue)
		So(model.ProviderOutcome{Status: model.StatusTimeout}.OK(), ShouldBeFalse)
		So(model.ProviderOutcome{Status: model.StatusFailure}.OK(), ShouldBeFalse)
	})
}
