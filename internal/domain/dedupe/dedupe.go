// Package dedupe validates raw offers and removes near-duplicate listings.
package dedupe

import (
	"math"
	"strings"

	"github.com/okian/neuroshop/internal/domain/match"
	"github.com/okian/neuroshop/internal/domain/model"
)

// Defaults for duplicate detection.
const (
	DefaultSimilarityThreshold = 0.8
	DefaultPriceTolerance      = 0.10
)

// Report counts what Normalize dropped.
type Report struct {
	Received   int
	Rejected   int
	Duplicates int
}

// Deduper validates offers and drops near-duplicates, keeping the first seen.
// A Deduper is immutable after construction and safe for concurrent use.
type Deduper struct {
	similarity float64
	tolerance  float64
}

// New creates a Deduper with the default thresholds.
func New(opts ...Option) *Deduper {
	d := &Deduper{
		similarity: DefaultSimilarityThreshold,
		tolerance:  DefaultPriceTolerance,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Normalize validates offers, cleans their fields and removes duplicates.
// Input order is preserved among survivors.
func (d *Deduper) Normalize(offers []model.Offer) ([]model.Offer, Report) {
	valid := Validate(offers)
	unique := d.Deduplicate(valid)
	return unique, Report{
		Received:   len(offers),
		Rejected:   len(offers) - len(valid),
		Duplicates: len(valid) - len(unique),
	}
}

// Deduplicate keeps each offer unless it duplicates an earlier survivor.
func (d *Deduper) Deduplicate(offers []model.Offer) []model.Offer {
	kept := make([]model.Offer, 0, len(offers))
	titles := make([]string, 0, len(offers))
	for _, o := range offers {
		title := strings.ToLower(o.Title)
		dup := false
		for i, k := range kept {
			if d.duplicate(title, titles[i], o.Price, k.Price) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, o)
			titles = append(titles, title)
		}
	}
	return kept
}

// IsDuplicate reports whether a and b describe the same product at about the same price.
func (d *Deduper) IsDuplicate(a, b model.Offer) bool {
	return d.duplicate(strings.ToLower(a.Title), strings.ToLower(b.Title), a.Price, b.Price)
}

func (d *Deduper) duplicate(titleA, titleB string, priceA, priceB float64) bool {
	if math.Abs(priceA-priceB) >= d.tolerance*math.Max(priceA, priceB) {
		return false
	}
	return match.Similarity(titleA, titleB) > d.similarity
}

// Validate drops offers that cannot be aggregated and returns cleaned copies
// of the rest: trimmed fields, collapsed title whitespace, default currency.
func Validate(offers []model.Offer) []model.Offer {
	out := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		o.Title = strings.Join(strings.Fields(o.Title), " ")
		o.Source = strings.TrimSpace(o.Source)
		o.URL = strings.TrimSpace(o.URL)
		o.ImageURL = strings.TrimSpace(o.ImageURL)
		if o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency)); o.Currency == "" {
			o.Currency = model.DefaultCurrency
		}
		if !o.Valid() {
			continue
		}
		out = append(out, o)
	}
	return out
}
