// Package catalog is a deterministic synthetic offer source. It stands in for
// a store when live scraping fails or during development.
package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/okian/neuroshop/internal/adapters/provider/scrape"
	"github.com/okian/neuroshop/internal/domain/model"
)

// Band is an inclusive price range for a keyword.
type Band struct {
	Keyword  string
	Min, Max int
}

// Variant is one synthetic listing relative to the base price.
type Variant struct {
	Suffix string
	Factor float64
}

// Profile shapes the listings of one store.
type Profile struct {
	Grocery  bool
	Variants []Variant
}

var marketplaceBands = []Band{ //nolint:gochecknoglobals // fixed price table
	{"iphone", 45000, 150000},
	{"samsung", 15000, 120000},
	{"laptop", 25000, 200000},
	{"headphone", 1500, 50000},
	{"watch", 2000, 80000},
	{"phone", 8000, 150000},
	{"tablet", 15000, 80000},
	{"camera", 20000, 300000},
	{"tv", 15000, 500000},
	{"speaker", 2000, 100000},
}

var produceWords = []string{"tomato", "potato", "onion", "carrot", "cabbage", "vegetable", "fruit", "apple", "banana", "orange"} //nolint:gochecknoglobals // fixed word list

var profiles = map[string]Profile{ //nolint:gochecknoglobals // fixed store table
	"amazon": {Variants: []Variant{
		{"Premium Quality Edition", 1},
		{"Best Seller", 1.15},
		{"Pro Model", 0.85},
	}},
	"flipkart": {Variants: []Variant{
		{"Top Rated Pro Model", 1},
		{"Special Edition Plus", 1.12},
		{"Value Pack", 0.88},
	}},
	"bigbasket": {Grocery: true, Variants: []Variant{
		{"Fresh", 1},
		{"Premium Quality", 0.6},
	}},
	"jiomart": {Grocery: true, Variants: []Variant{
		{"Farm Fresh", 1},
	}},
}

// Catalog produces stable synthetic offers for one store name.
type Catalog struct {
	name    string
	profile Profile
	latency time.Duration
}

// Option applies a configuration option to a Catalog.
type Option func(*Catalog)

// WithLatency delays every answer by d, honoring ctx.
func WithLatency(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.latency = d
		}
	}
}

// WithProfile overrides the listing profile.
func WithProfile(p Profile) Option {
	return func(c *Catalog) {
		if len(p.Variants) > 0 {
			c.profile = p
		}
	}
}

// New creates a catalog for the store name. Unknown stores get a marketplace profile.
func New(name string, opts ...Option) *Catalog {
	p, ok := profiles[name]
	if !ok {
		p = profiles["amazon"]
	}
	c := &Catalog{name: name, profile: p}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements provider.Provider.
func (c *Catalog) Name() string { return c.name }

// FetchOffers implements provider.Provider. The same name and term always
// produce the same offers.
func (c *Catalog) FetchOffers(ctx context.Context, term string) ([]model.Offer, error) {
	if c.latency > 0 {
		t := time.NewTimer(c.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	rng := rand.New(rand.NewPCG(seed(c.name, term), 0x9e3779b97f4a7c15)) //nolint:gosec // synthetic prices
	produce := isProduce(term)
	base := c.basePrice(rng, term, produce)
	link := c.searchURL(term)
	title := capitalize(term)

	offers := make([]model.Offer, 0, len(c.profile.Variants))
	for _, v := range c.profile.Variants {
		o := model.Offer{
			Source:   c.name,
			Title:    title + " - " + c.suffix(v, produce),
			Price:    math.Floor(base * v.Factor),
			URL:      link,
			Currency: model.DefaultCurrency,
		}
		if c.profile.Grocery {
			o.CategoryHint = "Groceries"
			if produce {
				o.CategoryHint = "Fresh Produce"
			}
		}
		offers = append(offers, o)
	}
	return offers, nil
}

func (c *Catalog) basePrice(rng *rand.Rand, term string, produce bool) float64 {
	if c.profile.Grocery {
		if produce {
			return float64(20 + rng.IntN(100))
		}
		return float64(50 + rng.IntN(500))
	}
	lower := strings.ToLower(term)
	for _, b := range marketplaceBands {
		if strings.Contains(lower, b.Keyword) {
			return float64(b.Min + rng.IntN(b.Max-b.Min))
		}
	}
	return float64(5000 + rng.IntN(50000))
}

func (c *Catalog) suffix(v Variant, produce bool) string {
	if !c.profile.Grocery {
		return v.Suffix
	}
	if produce {
		if v.Factor < 1 {
			return v.Suffix + " (500 g)"
		}
		return v.Suffix + " (1 kg)"
	}
	return v.Suffix + " Pack"
}

func (c *Catalog) searchURL(term string) string {
	if site, ok := scrape.Lookup(c.name); ok {
		return site.URL(term)
	}
	return fmt.Sprintf("https://%s.example/search?q=%s", c.name, url.QueryEscape(term))
}

func seed(name, term string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(term)))
	return h.Sum64()
}

func isProduce(term string) bool {
	lower := strings.ToLower(term)
	for _, w := range produceWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
