package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/neuroshop/internal/domain/model"
)

// Extract reads up to limit offers from doc using site's selectors. Results
// missing a title or a price are skipped. Relative links resolve against base.
func Extract(doc *goquery.Selection, site Site, base *url.URL, limit int) []model.Offer {
	var offers []model.Offer
	doc.Find(site.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if o, ok := ExtractOne(item, site, base); ok {
			offers = append(offers, o)
		}
		return limit <= 0 || len(offers) < limit
	})
	return offers
}

// ExtractOne reads a single result element.
func ExtractOne(item *goquery.Selection, site Site, base *url.URL) (model.Offer, bool) {
	title := first(item, site.Title)
	if title == "" {
		return model.Offer{}, false
	}
	price, err := ParsePrice(first(item, site.Price))
	if err != nil {
		return model.Offer{}, false
	}

	link := resolve(base, first(item, site.Link))
	if link == "" && base != nil {
		link = base.String()
	}

	return model.Offer{
		Source:       site.Name,
		Title:        strings.Join(strings.Fields(title), " "),
		Price:        price,
		URL:          link,
		ImageURL:     resolve(base, first(item, site.Image)),
		Currency:     model.DefaultCurrency,
		CategoryHint: site.CategoryHint,
	}, true
}

func first(item *goquery.Selection, fields []Field) string {
	for _, f := range fields {
		sel := item.Find(f.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		var v string
		if f.Attr == "" {
			v = sel.Text()
		} else {
			v, _ = sel.Attr(f.Attr)
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil || u.IsAbs() {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
