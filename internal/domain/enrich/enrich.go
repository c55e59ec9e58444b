// Package enrich produces the descriptive product block of a search response.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/neuroshop/internal/domain/model"
)

// ErrNothingToDescribe is returned when there are no offers to describe.
var ErrNothingToDescribe = errors.New("no offers to describe")

// Enricher describes a product given its ranked offers and price summary.
type Enricher interface {
	Describe(ctx context.Context, term string, offers []model.Offer, summary *model.PriceSummary) (*model.ProductInfo, error)
}

var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals // stateless formatter

// FormatINR renders an amount as rupees with thousands separators.
func FormatINR(amount float64) string {
	return printer.Sprintf("₹%.0f", amount)
}

// Fallback is the fixed description used when enrichment fails.
func Fallback(term string, summary *model.PriceSummary) *model.ProductInfo {
	info := &model.ProductInfo{
		ProductName:    term,
		KeyFeatures:    []string{"Available across multiple platforms", "Compare prices easily", "Best deals highlighted"},
		Description:    fmt.Sprintf("%s is available across multiple e-commerce platforms with varying prices.", term),
		Recommendation: "Check the highlighted best deal for maximum savings.",
		Generated:      false,
	}
	if summary != nil {
		info.PriceAnalysis = fmt.Sprintf("Price ranges from %s to %s.", FormatINR(summary.Lowest), FormatINR(summary.Highest))
	}
	return info
}
