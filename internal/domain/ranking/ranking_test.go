package ranking_test

import (
	"testing"

	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func offer(source, title string, price float64) model.Offer {
	return model.Offer{Source: source, Title: title, Price: price, URL: "https://" + source + ".example/p"}
}

func TestRank(t *testing.T) {
	Convey("Given unordered offers", t, func() {
		in := []model.Offer{
			offer("flipkart", "B", 300),
			offer("amazon", "A", 100),
			offer("jiomart", "C", 250),
			offer("bigbasket", "D", 100),
		}

		Convey("When ranking", func() {
			out := ranking.Rank(in)

			Convey("Then prices are non-decreasing and ties keep input order", func() {
				So(out, ShouldHaveLength, 4)
				for i := 1; i < len(out); i++ {
					So(out[i].Price, ShouldBeGreaterThanOrEqualTo, out[i-1].Price)
				}
				So(out[0].Source, ShouldEqual, "amazon")
				So(out[1].Source, ShouldEqual, "bigbasket")
			})

			Convey("Then ranks are contiguous from 1", func() {
				for i, o := range out {
					So(o.Rank, ShouldEqual, i+1)
				}
			})

			Convey("Then exactly one offer is the cheapest and it is rank 1", func() {
				cheapest := 0
				for _, o := range out {
					if o.IsCheapest {
						cheapest++
						So(o.Rank, ShouldEqual, 1)
					}
				}
				So(cheapest, ShouldEqual, 1)
			})

			Convey("Then savings are relative to the lowest price", func() {
				So(out[0].SavingsAmt, ShouldBeNil)
				So(out[0].SavingsPct, ShouldBeNil)
				So(*out[1].SavingsAmt, ShouldEqual, 0)
				So(*out[2].SavingsAmt, ShouldEqual, 150)
				So(*out[2].SavingsPct, ShouldEqual, 60)
				So(*out[3].SavingsAmt, ShouldEqual, 200)
				So(*out[3].SavingsPct, ShouldEqual, 67)
			})

			Convey("Then the input is untouched", func() {
				So(in[0].Rank, ShouldEqual, 0)
				So(in[0].Source, ShouldEqual, "flipkart")
			})
		})
	})

	Convey("Given a single offer", t, func() {
		out := ranking.Rank([]model.Offer{offer("amazon", "A", 499.5)})

		Convey("Then it is cheapest without savings", func() {
			So(out[0].Rank, ShouldEqual, 1)
			So(out[0].IsCheapest, ShouldBeTrue)
			So(out[0].SavingsAmt, ShouldBeNil)
		})
	})

	Convey("Given no offers", t, func() {
		So(ranking.Rank(nil), ShouldBeEmpty)
	})

	Convey("Given fractional prices", t, func() {
		out := ranking.Rank([]model.Offer{offer("a", "x", 10.10), offer("b", "y", 10.30)})

		Convey("Then the savings amount is the plain price difference", func() {
			So(*out[1].SavingsAmt, ShouldAlmostEqual, 0.2, 1e-9)
			So(*out[1].SavingsPct, ShouldEqual, 2)
		})
	})

	Convey("Given a difference that rounds across a percent boundary at cent precision", t, func() {
		out := ranking.Rank([]model.Offer{offer("a", "x", 0.4874), offer("b", "y", 0.5)})

		Convey("Then the percent is taken from the unrounded difference", func() {
			So(*out[1].SavingsAmt, ShouldAlmostEqual, 0.0126, 1e-9)
			So(*out[1].SavingsPct, ShouldEqual, 3)
		})
	})
}

func TestPlatforms(t *testing.T) {
	Convey("Given ranked offers from repeated sources", t, func() {
		ranked := ranking.Rank([]model.Offer{
			offer("flipkart", "B", 300),
			offer("amazon", "A", 100),
			offer("flipkart", "C", 50),
		})

		Convey("Then platforms are distinct in ranked order", func() {
			So(ranking.Platforms(ranked), ShouldResemble, []string{"flipkart", "amazon"})
		})
	})
}
