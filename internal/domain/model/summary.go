package model

// Tier labels in ascending price order.
const (
	TierBudget     = "Budget"
	TierAffordable = "Affordable"
	TierPremium    = "Premium"
	TierLuxury     = "Luxury"
)

// TierLabels lists the four price tiers from cheapest to most expensive.
var TierLabels = [4]string{TierBudget, TierAffordable, TierPremium, TierLuxury} //nolint:gochecknoglobals // fixed table

// PriceTier is one equal-width slice of the observed price range and the
// offers priced inside it, cheapest first.
type PriceTier struct {
	Label    string  `json:"label"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	Count    int     `json:"count"`
	Offers   []Offer `json:"offers"`
}

// SourceShare is the number of offers contributed by one source.
type SourceShare struct {
	Source         string  `json:"source"`
	Count          int     `json:"count"`
	PercentOfTotal float64 `json:"percentOfTotal"`
}

// PriceSummary describes the price distribution of a ranked result set.
type PriceSummary struct {
	Total              int           `json:"total"`
	Lowest             float64       `json:"lowest"`
	Highest            float64       `json:"highest"`
	Average            float64       `json:"average"`
	Median             float64       `json:"median"`
	Range              float64       `json:"range"`
	Tiers              []PriceTier   `json:"tiers"`
	Sources            []SourceShare `json:"sources"`
	LowestOffer        Offer         `json:"lowestOffer"`
	HighestOffer       Offer         `json:"highestOffer"`
	SavingsOpportunity float64       `json:"savingsOpportunity"`
}
