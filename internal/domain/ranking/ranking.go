// Package ranking orders offers by price and annotates them relative to the cheapest.
package ranking

import (
	"math"
	"sort"

	"github.com/okian/neuroshop/internal/domain/model"
)

// Rank returns a copy of offers sorted by ascending price with rank,
// cheapest flag and savings filled in. Offers with equal prices keep
// their input order. The input slice is not modified.
func Rank(offers []model.Offer) []model.Offer {
	ranked := make([]model.Offer, len(offers))
	copy(ranked, offers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Price < ranked[j].Price
	})

	if len(ranked) == 0 {
		return ranked
	}

	lowest := ranked[0].Price
	for i := range ranked {
		o := &ranked[i]
		o.Rank = i + 1
		o.IsCheapest = i == 0
		o.SavingsAmt = nil
		o.SavingsPct = nil
		if i == 0 || len(ranked) < 2 {
			continue
		}
		amount := o.Price - lowest
		percent := math.Round(100 * amount / o.Price)
		o.SavingsAmt = &amount
		o.SavingsPct = &percent
	}
	return ranked
}

// Platforms returns the distinct sources of ranked in first-appearance order.
func Platforms(ranked []model.Offer) []string {
	seen := make(map[string]struct{}, len(ranked))
	out := make([]string, 0, len(ranked))
	for _, o := range ranked {
		if _, ok := seen[o.Source]; ok {
			continue
		}
		seen[o.Source] = struct{}{}
		out = append(out, o.Source)
	}
	return out
}
