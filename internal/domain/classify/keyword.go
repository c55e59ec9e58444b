package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/neuroshop/internal/domain/model"
)

// KeywordOption applies a configuration option to a Keyword classifier.
type KeywordOption func(*Keyword)

// WithLatency makes every call wait d before answering, honoring ctx.
// Useful to model a remote classifier in tests and demos.
func WithLatency(d time.Duration) KeywordOption {
	return func(k *Keyword) {
		if d > 0 {
			k.latency = d
		}
	}
}

// WithRules replaces the category keyword table. Rules are tried in order.
func WithRules(rules []Rule) KeywordOption {
	return func(k *Keyword) {
		if len(rules) > 0 {
			k.rules = rules
		}
	}
}

// Rule maps keywords to a category. Keywords shorter than four letters must
// match a whole word; longer ones match the start or the end of a word, so
// "tomatoes" and "smartphone" match but "prices" does not match "rice".
type Rule struct {
	Category model.Category
	Keywords []string
}

// DefaultRules is the built-in category table, checked in order.
func DefaultRules() []Rule {
	return []Rule{
		{model.CategoryVegetables, []string{"tomato", "potato", "onion", "carrot", "cabbage", "spinach", "broccoli", "vegetable", "veggie"}},
		{model.CategoryGroceries, []string{"rice", "wheat", "flour", "oil", "milk", "bread", "sugar", "salt", "grocery", "groceries", "atta", "dal"}},
		{model.CategoryFood, []string{"food", "snack", "biscuit", "chocolate", "juice", "tea", "coffee"}},
		{model.CategoryElectronics, []string{"phone", "laptop", "tv", "camera", "headphone", "earbud", "speaker", "tablet", "watch", "iphone", "samsung", "sony", "lg", "dell", "hp", "lenovo"}},
	}
}

// fillers are dropped from search terms.
var fillers = map[string]struct{}{ //nolint:gochecknoglobals // fixed word list
	"a": {}, "an": {}, "the": {}, "best": {}, "cheap": {}, "cheapest": {}, "buy": {},
	"online": {}, "price": {}, "prices": {}, "for": {}, "with": {}, "in": {}, "of": {},
	"latest": {}, "new": {}, "top": {}, "good": {}, "deal": {}, "deals": {}, "offer": {},
	"offers": {}, "me": {}, "find": {}, "show": {}, "please": {},
}

// boundWords introduce a price bound; the bound and its value are dropped.
var boundWords = map[string]struct{}{ //nolint:gochecknoglobals // fixed word list
	"under": {}, "below": {}, "within": {}, "around": {}, "upto": {},
}

// Keyword is a local, deterministic Classifier driven by keyword tables.
type Keyword struct {
	rules   []Rule
	latency time.Duration
}

// NewKeyword creates a keyword classifier.
func NewKeyword(opts ...KeywordOption) *Keyword {
	k := &Keyword{rules: DefaultRules()}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Keyword) wait(ctx context.Context) error {
	if k.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(k.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// SearchTerm drops filler words and price bounds, keeping the original casing
// of the remaining words.
func (k *Keyword) SearchTerm(ctx context.Context, raw string) (string, error) {
	if err := k.wait(ctx); err != nil {
		return "", err
	}

	kept := significant(raw)
	if len(kept) == 0 {
		return "", ErrNoAnswer
	}
	return strings.Join(kept, " "), nil
}

// significant splits raw into words without punctuation, filler words and
// price bounds.
func significant(raw string) []string {
	words := strings.Fields(raw)
	kept := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		w := strings.ToLower(strings.Trim(words[i], ",.!?"))
		if _, ok := boundWords[w]; ok {
			// "under 80k", "below rs 500"
			for i+1 < len(words) && isPriceToken(words[i+1]) {
				i++
			}
			continue
		}
		if _, ok := fillers[w]; ok {
			continue
		}
		kept = append(kept, strings.Trim(words[i], ",.!?"))
	}
	return kept
}

func isPriceToken(s string) bool {
	s = strings.ToLower(s)
	switch s {
	case "rs", "rs.", "inr", "₹":
		return true
	}
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(s, "rs")
	s = strings.TrimSuffix(s, "k")
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' && r != '.' {
			return false
		}
	}
	return true
}

// Category returns the first rule matching any significant word of raw, or
// general.
func (k *Keyword) Category(ctx context.Context, raw string) (model.Category, error) {
	if err := k.wait(ctx); err != nil {
		return model.CategoryGeneral, err
	}

	words := significant(strings.ToLower(raw))
	for _, rule := range k.rules {
		for _, kw := range rule.Keywords {
			if matchesAny(words, kw) {
				return rule.Category, nil
			}
		}
	}
	return model.CategoryGeneral, nil
}

func matchesAny(words []string, keyword string) bool {
	for _, w := range words {
		if len(keyword) < 4 {
			if w == keyword {
				return true
			}
			continue
		}
		if strings.HasPrefix(w, keyword) || strings.HasSuffix(w, keyword) {
			return true
		}
	}
	return false
}
