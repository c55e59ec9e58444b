// Package browser fetches search pages through headless Chrome for stores
// that render their results with JavaScript.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/okian/neuroshop/internal/adapters/provider/scrape"
	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
)

const (
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultMaxResults = 10
)

// Browser is a provider that renders the search page before extracting offers.
type Browser struct {
	site         scrape.Site
	userAgent    string
	maxResults   int
	execPath     string
	waitSelector string
	log          logger.Logger
}

// New creates a browser-backed provider for site.
func New(site scrape.Site, opts ...Option) *Browser {
	b := &Browser{
		site:         site,
		userAgent:    defaultUserAgent,
		maxResults:   defaultMaxResults,
		waitSelector: "body",
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.NamedOrNop("browser." + site.Name)
	}
	return b
}

// Name implements provider.Provider.
func (b *Browser) Name() string { return b.site.Name }

// FetchOffers implements provider.Provider. Chrome is started per call and
// torn down when ctx ends.
func (b *Browser) FetchOffers(ctx context.Context, term string) ([]model.Offer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.userAgent),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	target := b.site.URL(term)
	b.log.Debug(ctx, "rendering search page", logger.String("url", target))

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady(b.waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: chromedp: %w", b.site.Name, err)
	}

	offers, err := Parse(html, b.site, target, b.maxResults)
	if err != nil {
		return nil, err
	}
	b.log.Debug(ctx, "parsed rendered page",
		logger.String("term", term),
		logger.Int("offers", len(offers)),
	)
	return offers, nil
}

// Parse extracts offers from rendered HTML of pageURL.
func Parse(html string, site scrape.Site, pageURL string, limit int) ([]model.Offer, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", site.Name, err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: page url: %w", site.Name, err)
	}
	return scrape.Extract(doc.Selection, site, base, limit), nil
}
