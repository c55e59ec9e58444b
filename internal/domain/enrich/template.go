package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/neuroshop/internal/domain/model"
)

// Template builds a product description from the offers themselves.
type Template struct{}

// NewTemplate creates a template enricher.
func NewTemplate() *Template { return &Template{} }

// Describe implements Enricher.
func (Template) Describe(ctx context.Context, term string, offers []model.Offer, summary *model.PriceSummary) (*model.ProductInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(offers) == 0 || summary == nil {
		return nil, ErrNothingToDescribe
	}

	best := summary.LowestOffer
	sources := make([]string, 0, len(summary.Sources))
	for _, s := range summary.Sources {
		sources = append(sources, s.Source)
	}

	features := []string{
		fmt.Sprintf("Listed by %d %s", len(sources), plural(len(sources), "platform", "platforms")),
		fmt.Sprintf("Prices from %s to %s", FormatINR(summary.Lowest), FormatINR(summary.Highest)),
		fmt.Sprintf("Best price on %s", best.Source),
	}
	if busiest := busiestTier(summary.Tiers); busiest != "" {
		features = append(features, fmt.Sprintf("Most offers in the %s tier", busiest))
	}

	analysis := fmt.Sprintf("%d offers averaging %s with a median of %s.",
		summary.Total, FormatINR(summary.Average), FormatINR(summary.Median))
	if summary.Range > 0 {
		analysis += fmt.Sprintf(" Picking the cheapest saves up to %s.", FormatINR(summary.SavingsOpportunity))
	}

	recommendation := fmt.Sprintf("Buy from %s at %s.", best.Source, FormatINR(best.Price))
	if summary.Total == 1 {
		recommendation = fmt.Sprintf("Only %s lists this right now at %s.", best.Source, FormatINR(best.Price))
	}

	return &model.ProductInfo{
		ProductName:    best.Title,
		KeyFeatures:    features,
		Description:    fmt.Sprintf("%s is available on %s.", term, strings.Join(sources, ", ")),
		PriceAnalysis:  analysis,
		Recommendation: recommendation,
		Generated:      true,
	}, nil
}

func busiestTier(tiers []model.PriceTier) string {
	label, most := "", 0
	for _, t := range tiers {
		if t.Count > most {
			label, most = t.Label, t.Count
		}
	}
	return label
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
