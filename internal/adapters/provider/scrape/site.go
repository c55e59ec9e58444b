// Package scrape implements HTML search-page providers for the supported stores.
package scrape

import (
	"fmt"
	"net/url"
	"strings"
)

// Field locates a value inside one search result. An empty Attr reads the
// element text.
type Field struct {
	Selector string
	Attr     string
}

// Site describes how to search one store and read its result list.
// Each field lists candidates tried in order; the first non-empty wins.
type Site struct {
	Name         string
	SearchURL    string // contains one %s for the escaped term
	PathEscape   bool   // escape the term as a path segment instead of a query value
	Domains      []string
	Item         string
	Title        []Field
	Price        []Field
	Image        []Field
	Link         []Field
	CategoryHint string
}

// URL returns the search page address for term.
func (s Site) URL(term string) string {
	escaped := url.QueryEscape(term)
	if s.PathEscape {
		escaped = url.PathEscape(term)
	}
	return fmt.Sprintf(s.SearchURL, escaped)
}

func text(sel string) Field {
	return Field{Selector: sel}
}

func attr(sel, a string) Field {
	return Field{Selector: sel, Attr: a}
}

func texts(sels ...string) []Field {
	out := make([]Field, len(sels))
	for i, s := range sels {
		out[i] = text(s)
	}
	return out
}

// Amazon searches amazon.in.
func Amazon() Site {
	return Site{
		Name:      "amazon",
		SearchURL: "https://www.amazon.in/s?k=%s",
		Domains:   []string{"www.amazon.in", "amazon.in"},
		Item:      `[data-component-type="s-search-result"]`,
		Title:     texts("h2 a span", "h2 span", "h2"),
		Price:     texts(".a-price .a-offscreen", ".a-price-whole"),
		Image:     []Field{attr("img.s-image", "src"), attr("img", "src")},
		Link:      []Field{attr("h2 a", "href"), attr("a.a-link-normal", "href")},
	}
}

// Flipkart searches flipkart.com.
func Flipkart() Site {
	return Site{
		Name:      "flipkart",
		SearchURL: "https://www.flipkart.com/search?q=%s",
		Domains:   []string{"www.flipkart.com", "flipkart.com"},
		Item:      "[data-id]",
		Title: append(texts("a.wjcEIp", "a.WKTcLC", "a.IRpwTa", "a.s1Q9rs", ".KzDlHZ"),
			attr("a[title]", "title")),
		Price: texts("div.Nx9bqj", "div._30jeq3", "div._1_WHN1"),
		Image: []Field{attr("img", "src")},
		Link:  []Field{attr("a", "href")},
	}
}

// BigBasket searches bigbasket.com.
func BigBasket() Site {
	return Site{
		Name:         "bigbasket",
		SearchURL:    "https://www.bigbasket.com/ps/?q=%s",
		Domains:      []string{"www.bigbasket.com", "bigbasket.com"},
		Item:         `.SKUDeck, .product, [data-qa="product"]`,
		Title:        texts(".SKUDeck___StyledH", "h3", ".product-name"),
		Price:        texts(".Pricing___StyledLabel", ".discnt-price", ".price"),
		Image:        []Field{attr("img", "src")},
		Link:         []Field{attr("a", "href")},
		CategoryHint: "Groceries",
	}
}

// JioMart searches jiomart.com.
func JioMart() Site {
	return Site{
		Name:         "jiomart",
		SearchURL:    "https://www.jiomart.com/search/%s",
		PathEscape:   true,
		Domains:      []string{"www.jiomart.com", "jiomart.com"},
		Item:         `.product-tile, .jm-product, [data-product]`,
		Title:        texts(".product-title", "h3", ".jm-heading-xs"),
		Price:        texts(".jm-heading-xxs", ".final-price", ".price"),
		Image:        []Field{attr("img", "src")},
		Link:         []Field{attr("a", "href")},
		CategoryHint: "Groceries",
	}
}

// Sites returns every built-in store definition.
func Sites() []Site {
	return []Site{Amazon(), Flipkart(), BigBasket(), JioMart()}
}

// Lookup returns the built-in site named name.
func Lookup(name string) (Site, bool) {
	for _, s := range Sites() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Site{}, false
}
