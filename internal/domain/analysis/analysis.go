// Package analysis summarizes the price distribution of a result set.
package analysis

import (
	"math"
	"sort"

	"github.com/okian/neuroshop/internal/domain/model"
)

// Analyze returns the price summary of offers, or nil when there are none.
// Offers need not be sorted.
func Analyze(offers []model.Offer) *model.PriceSummary {
	if len(offers) == 0 {
		return nil
	}

	sorted := make([]model.Offer, len(offers))
	copy(sorted, offers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	n := len(sorted)
	lowest := sorted[0].Price
	highest := sorted[n-1].Price

	var sum float64
	for _, o := range sorted {
		sum += o.Price
	}

	spread := highest - lowest
	return &model.PriceSummary{
		Total:              n,
		Lowest:             lowest,
		Highest:            highest,
		Average:            math.Round(sum / float64(n)),
		Median:             sorted[n/2].Price,
		Range:              spread,
		Tiers:              Tiers(sorted, lowest, highest),
		Sources:            Sources(offers),
		LowestOffer:        sorted[0],
		HighestOffer:       sorted[n-1],
		SavingsOpportunity: spread,
	}
}

// Tiers splits [lowest, highest] into four equal-width bands and places each
// offer in one of them, keeping the input order. An offer belongs to the first band whose upper bound is at
// least its price, so boundary prices fall into the cheaper band.
func Tiers(offers []model.Offer, lowest, highest float64) []model.PriceTier {
	width := (highest - lowest) / float64(len(model.TierLabels))
	tiers := make([]model.PriceTier, len(model.TierLabels))
	for i, label := range model.TierLabels {
		tiers[i] = model.PriceTier{
			Label:    label,
			MinPrice: lowest + float64(i)*width,
			MaxPrice: lowest + float64(i+1)*width,
			Offers:   []model.Offer{},
		}
	}
	tiers[len(tiers)-1].MaxPrice = highest

	for _, o := range offers {
		idx := len(tiers) - 1
		for i := range tiers {
			if o.Price <= tiers[i].MaxPrice {
				idx = i
				break
			}
		}
		tiers[idx].Offers = append(tiers[idx].Offers, o)
		tiers[idx].Count++
	}
	return tiers
}

// Sources counts offers per source in first-appearance order.
func Sources(offers []model.Offer) []model.SourceShare {
	index := make(map[string]int)
	var shares []model.SourceShare
	for _, o := range offers {
		i, ok := index[o.Source]
		if !ok {
			i = len(shares)
			index[o.Source] = i
			shares = append(shares, model.SourceShare{Source: o.Source})
		}
		shares[i].Count++
	}
	for i := range shares {
		shares[i].PercentOfTotal = math.Round(100 * float64(shares[i].Count) / float64(len(offers)))
	}
	return shares
}
