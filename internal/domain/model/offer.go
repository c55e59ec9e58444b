// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strings"
)

// DefaultCurrency is applied to offers that do not name one.
const DefaultCurrency = "INR"

// Offer is one product listing returned by a source.
// Rank, IsCheapest and the savings fields are filled in by ranking.
type Offer struct {
	Source       string   `json:"source"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	URL          string   `json:"url"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Currency     string   `json:"currency"`
	CategoryHint string   `json:"categoryHint,omitempty"`
	Rank         int      `json:"rank,omitempty"`
	IsCheapest   bool     `json:"isCheapest"`
	SavingsAmt   *float64 `json:"savingsAmount,omitempty"`
	SavingsPct   *float64 `json:"savingsPercent,omitempty"`
}

// Valid reports whether the offer can take part in aggregation.
func (o Offer) Valid() bool {
	return o.Price > 0 &&
		!math.IsInf(o.Price, 0) &&
		!math.IsNaN(o.Price) &&
		strings.TrimSpace(o.Title) != "" &&
		strings.TrimSpace(o.URL) != "" &&
		strings.TrimSpace(o.Source) != ""
}
