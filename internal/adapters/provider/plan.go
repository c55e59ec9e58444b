package provider

import (
	"context"
	"slices"

	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
)

// Provider identifiers known to the default plan.
const (
	Amazon    = "amazon"
	Flipkart  = "flipkart"
	BigBasket = "bigbasket"
	JioMart   = "jiomart"
)

// Plan declares which providers are queried for a category.
// Base providers are queried for every category; Supplemental ones are
// appended for the categories they list.
type Plan struct {
	Base         []string
	Supplemental map[model.Category][]string
}

// DefaultPlan queries the general marketplaces for everything and adds the
// grocery stores for food-like categories.
func DefaultPlan() Plan {
	grocery := []string{BigBasket, JioMart}
	return Plan{
		Base: []string{Amazon, Flipkart},
		Supplemental: map[model.Category][]string{
			model.CategoryGroceries:  grocery,
			model.CategoryVegetables: grocery,
			model.CategoryFood:       grocery,
		},
	}
}

// For returns the ordered, de-duplicated provider IDs for category.
func (p Plan) For(category model.Category) []string {
	ids := make([]string, 0, len(p.Base)+len(p.Supplemental[category]))
	for _, id := range append(slices.Clone(p.Base), p.Supplemental[category]...) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// All returns every provider ID the plan can select, base first.
func (p Plan) All() []string {
	ids := slices.Clone(p.Base)
	for _, c := range model.Categories {
		for _, id := range p.Supplemental[c] {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Registry resolves provider IDs to providers.
type Registry struct {
	providers map[string]Provider
	order     []string
	log       logger.Logger
}

// NewRegistry registers providers under their names; a later provider with
// the same name replaces an earlier one.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{
		providers: make(map[string]Provider, len(providers)),
		log:       logger.NamedOrNop("registry"),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces p.
func (r *Registry) Register(p Provider) {
	name := p.Name()
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Select resolves the plan for category, skipping IDs that are not registered.
func (r *Registry) Select(ctx context.Context, plan Plan, category model.Category) []Provider {
	ids := plan.For(category)
	out := make([]Provider, 0, len(ids))
	for _, id := range ids {
		p, ok := r.providers[id]
		if !ok {
			r.log.Warn(ctx, "plan names unknown provider", logger.String("provider", id))
			continue
		}
		out = append(out, p)
	}
	return out
}
