package probe

import (
	"fmt"
	"math"

	"github.com/okian/neuroshop/internal/domain/model"
)

// Check returns every ordering or consistency violation in resp.
func Check(resp *model.SearchResponse) []string {
	var out []string
	add := func(format string, args ...any) {
		out = append(out, fmt.Sprintf("%q: ", resp.Query)+fmt.Sprintf(format, args...))
	}

	if resp.Count != len(resp.Results) {
		add("count %d but %d results", resp.Count, len(resp.Results))
	}
	if resp.Metadata.RequestID == "" {
		add("missing request id")
	}

	cheapest := 0
	for i, o := range resp.Results {
		if o.Rank != i+1 {
			add("result %d has rank %d", i, o.Rank)
		}
		if o.Price <= 0 || math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
			add("result %d has price %v", i, o.Price)
		}
		if o.Title == "" {
			add("result %d has no title", i)
		}
		if i > 0 && o.Price < resp.Results[i-1].Price {
			add("result %d is cheaper than result %d", i, i-1)
		}
		if o.IsCheapest {
			cheapest++
			if i != 0 {
				add("cheapest flag on rank %d", o.Rank)
			}
		}
	}
	if len(resp.Results) > 0 && cheapest != 1 {
		add("%d offers flagged cheapest", cheapest)
	}

	switch {
	case len(resp.Results) == 0 && resp.PriceAnalysis != nil:
		add("price analysis without results")
	case len(resp.Results) > 0 && resp.PriceAnalysis == nil:
		add("results without price analysis")
	case resp.PriceAnalysis != nil:
		pa := resp.PriceAnalysis
		if pa.Lowest != resp.Results[0].Price {
			add("lowest %v is not the first price %v", pa.Lowest, resp.Results[0].Price)
		}
		if pa.Total != len(resp.Results) {
			add("analysis counts %d offers, response has %d", pa.Total, len(resp.Results))
		}
		if len(pa.Tiers) > 0 {
			checkTiers(pa, add)
		}
	}
	return out
}

func checkTiers(pa *model.PriceSummary, add func(string, ...any)) {
	placed := 0
	for _, t := range pa.Tiers {
		if t.Count != len(t.Offers) {
			add("tier %s counts %d but holds %d offers", t.Label, t.Count, len(t.Offers))
		}
		for _, o := range t.Offers {
			if o.Price < t.MinPrice || o.Price > t.MaxPrice {
				add("tier %s [%v, %v] holds price %v", t.Label, t.MinPrice, t.MaxPrice, o.Price)
			}
		}
		placed += len(t.Offers)
	}
	if placed != pa.Total {
		add("tiers hold %d offers, analysis counts %d", placed, pa.Total)
	}
}
