package classify

import (
	"context"
	"time"

	"github.com/okian/neuroshop/internal/domain/cache"
	"github.com/okian/neuroshop/internal/domain/model"
)

// Cache kinds used in classifier keys.
const (
	KindSearchTerm = "search_term"
	KindCategory   = "category"
)

// Cached memoizes a Classifier's successful answers in a TTL cache.
// Errors are not cached.
type Cached struct {
	next  Classifier
	store *cache.TTL[string]
	ttl   time.Duration
}

// NewCached wraps next with store; entries live for ttl.
func NewCached(next Classifier, store *cache.TTL[string], ttl time.Duration) *Cached {
	return &Cached{next: next, store: store, ttl: ttl}
}

// SearchTerm implements Classifier.
func (c *Cached) SearchTerm(ctx context.Context, raw string) (string, error) {
	key := cache.ClassifierKey(KindSearchTerm, raw)
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}
	term, err := c.next.SearchTerm(ctx, raw)
	if err != nil {
		return "", err
	}
	c.store.Set(key, term, c.ttl)
	return term, nil
}

// Category implements Classifier.
func (c *Cached) Category(ctx context.Context, raw string) (model.Category, error) {
	key := cache.ClassifierKey(KindCategory, raw)
	if v, ok := c.store.Get(key); ok {
		return model.ParseCategory(v), nil
	}
	cat, err := c.next.Category(ctx, raw)
	if err != nil {
		return model.CategoryGeneral, err
	}
	c.store.Set(key, string(cat), c.ttl)
	return cat, nil
}
